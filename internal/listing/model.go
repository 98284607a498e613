package listing

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"bumpbox-be/internal/catalog"
)

type Condition string

const (
	ConditionLikeNew   Condition = "Like New"
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionUsed      Condition = "Used"
)

// DefaultCondition is preselected on the listing form.
const DefaultCondition = ConditionGood

var Conditions = []Condition{
	ConditionLikeNew,
	ConditionExcellent,
	ConditionGood,
	ConditionFair,
	ConditionUsed,
}

func (c Condition) Valid() bool {
	for _, v := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}

// Media describes an uploaded file. Only metadata is kept.
type Media struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Listing is the seller's confirmation record kept under the session's
// newListing key.
type Listing struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Category     string         `json:"category"`
	Price        float64        `json:"price"`
	Condition    Condition      `json:"condition"`
	Description  string         `json:"description"`
	Image        Media          `json:"image"`
	Video        Media          `json:"video"`
	LockerSlotID string         `json:"lockerSlotId"`
	Passcode     string         `json:"passcode"`
	Locker       catalog.Locker `json:"locker"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// PriceInput accepts either a JSON number or a decimal string and keeps
// the literal text for parsing.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceInput(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PriceInput(n.String())
	return nil
}

type CreateInput struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Price       PriceInput `json:"price"`
	Condition   Condition  `json:"condition"`
	Description string     `json:"description"`
	LockerID    string     `json:"lockerId"`
	Image       *Media     `json:"image"`
	Video       *Media     `json:"video"`
}
