package metadomain

import "encoding/json"

// InsightRow is one raw daily metric row from the Graph API insights edge.
// Numeric fields arrive as strings. Breakdown dimension values arrive as
// additional top-level keys and are collected into Dimensions.
type InsightRow struct {
	DateStart   string   `json:"date_start"`
	DateStop    string   `json:"date_stop"`
	AccountID   string   `json:"account_id"`
	CampaignID  string   `json:"campaign_id"`
	AdsetID     string   `json:"adset_id"`
	AdID        string   `json:"ad_id"`
	Impressions string   `json:"impressions"`
	Clicks      string   `json:"clicks"`
	Spend       string   `json:"spend"`
	CTR         string   `json:"ctr"`
	Frequency   string   `json:"frequency"`
	Reach       string   `json:"reach"`
	Actions     []Action `json:"actions"`

	Dimensions map[string]string `json:"-"`
}

// Action is one conversion-style event bucket.
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// knownRowFields are the keys already promoted to struct fields.
var knownRowFields = map[string]bool{
	"date_start": true, "date_stop": true, "account_id": true,
	"campaign_id": true, "adset_id": true, "ad_id": true,
	"impressions": true, "clicks": true, "spend": true,
	"ctr": true, "frequency": true, "reach": true, "actions": true,
}

// UnmarshalJSON keeps unknown string-valued keys (the requested breakdown
// dimensions) in Dimensions alongside the promoted fields.
func (r *InsightRow) UnmarshalJSON(data []byte) error {
	type alias InsightRow
	var row alias
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	for key, raw := range all {
		if knownRowFields[key] {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			// Non-string extras (nested objects) are not dimensions
			continue
		}
		if row.Dimensions == nil {
			row.Dimensions = make(map[string]string)
		}
		row.Dimensions[key] = value
	}

	*r = InsightRow(row)
	return nil
}

// InsightsPage is the raw paged response from the insights edge.
type InsightsPage struct {
	Data   []InsightRow `json:"data"`
	Paging Paging       `json:"paging"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

type Cursors struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// NextCursor returns the continuation cursor, empty at end of data.
func (p *InsightsPage) NextCursor() string {
	if p.Paging.Next == "" {
		return ""
	}
	return p.Paging.Cursors.After
}
