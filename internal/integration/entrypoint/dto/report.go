// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/ledgerfeed/backend/internal/application/usecase/report"
)

// AccountActivityResponse represents one account's activity within a month.
type AccountActivityResponse struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Inflow      string `json:"inflow"`
	Outflow     string `json:"outflow"`
	Net         string `json:"net"`
	SplitCount  int    `json:"split_count"`
}

// MonthActivityResponse represents one month in the activity report.
type MonthActivityResponse struct {
	Month    string                    `json:"month"`
	Label    string                    `json:"label"`
	Inflow   string                    `json:"inflow"`
	Outflow  string                    `json:"outflow"`
	Accounts []AccountActivityResponse `json:"accounts"`
}

// ActivityTotalsResponse represents window-wide totals in the activity report.
type ActivityTotalsResponse struct {
	ByType           map[string]string `json:"by_type"`
	TransactionCount int64             `json:"transaction_count"`
}

// ActivityReportResponse represents the response for the monthly activity report.
type ActivityReportResponse struct {
	StartDate string                  `json:"start_date"`
	EndDate   string                  `json:"end_date"`
	Months    []MonthActivityResponse `json:"months"`
	Totals    *ActivityTotalsResponse `json:"totals,omitempty"`
}

// ToActivityReportResponse converts activity report output to an ActivityReportResponse.
func ToActivityReportResponse(output *report.GetActivityOutput) ActivityReportResponse {
	months := make([]MonthActivityResponse, 0, len(output.Months))
	for _, month := range output.Months {
		accounts := make([]AccountActivityResponse, 0, len(month.Accounts))
		for _, account := range month.Accounts {
			accounts = append(accounts, AccountActivityResponse{
				AccountID:   account.AccountID,
				AccountName: account.AccountName,
				Inflow:      account.Inflow.String(),
				Outflow:     account.Outflow.String(),
				Net:         account.Net.String(),
				SplitCount:  account.SplitCount,
			})
		}
		months = append(months, MonthActivityResponse{
			Month:    month.Month,
			Label:    month.Label,
			Inflow:   month.Inflow.String(),
			Outflow:  month.Outflow.String(),
			Accounts: accounts,
		})
	}

	response := ActivityReportResponse{
		StartDate: output.Period.StartDate.Format("2006-01-02"),
		EndDate:   output.Period.EndDate.Format("2006-01-02"),
		Months:    months,
	}

	if output.Totals != nil {
		response.Totals = &ActivityTotalsResponse{
			ByType:           output.Totals.ByType,
			TransactionCount: output.Totals.TransactionCount,
		}
	}

	return response
}
