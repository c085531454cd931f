// Package report builds and submits the Sponsored Products campaign report
// request to the Amazon Advertising API.
package report

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used by the reporting API
const DateLayout = "2006-01-02"

// Fixed report definition
const (
	AdProduct    = "SPONSORED_PRODUCTS"
	ReportTypeID = "spCampaigns"
	TimeUnit     = "SUMMARY"
	Format       = "GZIP_JSON"

	// ContentType is the versioned media type of the create-report call
	ContentType = "application/vnd.createasyncreportrequest.v3+json"
)

var (
	groupBy = []string{"campaign"}
	columns = []string{"impressions", "clicks", "cost"}
)

// Configuration describes what the report aggregates
type Configuration struct {
	AdProduct    string   `json:"adProduct"`
	GroupBy      []string `json:"groupBy"`
	Columns      []string `json:"columns"`
	ReportTypeID string   `json:"reportTypeId"`
	TimeUnit     string   `json:"timeUnit"`
	Format       string   `json:"format"`
}

// CampaignPayload is the body of POST /reporting/reports
type CampaignPayload struct {
	Name          string        `json:"name"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	Configuration Configuration `json:"configuration"`
}

// DateRange returns the trailing window ending on the UTC calendar date of now
func DateRange(now time.Time, lookbackDays int) (start, end string) {
	endDate := now.UTC()
	endDate = time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)
	startDate := endDate.AddDate(0, 0, -lookbackDays)
	return startDate.Format(DateLayout), endDate.Format(DateLayout)
}

// NewCampaignPayload creates the campaign report definition for a date range
func NewCampaignPayload(start, end string) CampaignPayload {
	return CampaignPayload{
		Name:      fmt.Sprintf("Campaign report %s - %s", start, end),
		StartDate: start,
		EndDate:   end,
		Configuration: Configuration{
			AdProduct:    AdProduct,
			GroupBy:      append([]string(nil), groupBy...),
			Columns:      append([]string(nil), columns...),
			ReportTypeID: ReportTypeID,
			TimeUnit:     TimeUnit,
			Format:       Format,
		},
	}
}

// Headers returns the request headers of the create-report call
func Headers(clientID, accessToken, profileID string) map[string]string {
	return map[string]string{
		"Content-Type":                    ContentType,
		"Amazon-Advertising-API-ClientId": clientID,
		"Amazon-Advertising-API-Scope":    profileID,
		"Authorization":                   "Bearer " + accessToken,
	}
}
