package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bher20/tariffmanager/internal/tariff"
)

// TariffRow is the persisted form of a tariff. The pricing variant is kept
// as a JSON payload; the indexed columns mirror it for filtering.
type TariffRow struct {
	ID              string    `gorm:"primaryKey;column:id"`
	Position        int64     `gorm:"column:position;index"`
	Type            string    `gorm:"column:type"`
	CustomerSegment string    `gorm:"column:customer_segment"`
	CompanyName     string    `gorm:"column:company_name"`
	TariffName      string    `gorm:"column:tariff_name"`
	Payload         []byte    `gorm:"column:payload"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (TariffRow) TableName() string { return "tariffs" }

func tariffRow(t tariff.Tariff) (TariffRow, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return TariffRow{}, fmt.Errorf("encode tariff %s: %w", t.ID, err)
	}
	return TariffRow{
		ID:              t.ID,
		Type:            string(t.Type),
		CustomerSegment: string(t.CustomerSegment),
		CompanyName:     t.CompanyName,
		TariffName:      t.TariffName,
		Payload:         payload,
	}, nil
}

// Tariff decodes the row payload.
func (r TariffRow) Tariff() (tariff.Tariff, error) {
	var t tariff.Tariff
	if err := json.Unmarshal(r.Payload, &t); err != nil {
		return tariff.Tariff{}, fmt.Errorf("decode tariff %s: %w", r.ID, err)
	}
	t.ID = r.ID
	return t, nil
}

// ComparisonRecord is a finished comparison saved with client display data.
// Payload holds the JSON-encoded request and recommendation.
type ComparisonRecord struct {
	ID                  string    `json:"id" gorm:"primaryKey;column:id"`
	ClientName          string    `json:"clientName" gorm:"column:client_name"`
	ClientEmail         string    `json:"clientEmail,omitempty" gorm:"column:client_email"`
	PrimaryColor        string    `json:"primaryColor,omitempty" gorm:"column:primary_color"`
	SecondaryColor      string    `json:"secondaryColor,omitempty" gorm:"column:secondary_color"`
	Type                string    `json:"type" gorm:"column:type"`
	CustomerSegment     string    `json:"customerSegment" gorm:"column:customer_segment"`
	CurrentBill         float64   `json:"currentBill" gorm:"column:current_bill"`
	RecommendedTariffID string    `json:"recommendedTariffId" gorm:"column:recommended_tariff_id"`
	RecommendedTotal    float64   `json:"recommendedTotal" gorm:"column:recommended_total"`
	MonthlySaving       float64   `json:"monthlySaving" gorm:"column:monthly_saving"`
	Payload             []byte    `json:"-" gorm:"column:payload"`
	CreatedAt           time.Time `json:"createdAt" gorm:"column:created_at;index"`
}

func (ComparisonRecord) TableName() string { return "comparisons" }

// Token represents an API access token.
type Token struct {
	ID         string     `json:"id" gorm:"primaryKey;column:id"`
	Name       string     `json:"name" gorm:"column:name"`
	TokenHash  string     `json:"-" gorm:"uniqueIndex;column:token_hash"`
	Role       string     `json:"role" gorm:"column:role"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" gorm:"column:expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" gorm:"column:last_used_at"`
}

func (Token) TableName() string { return "api_tokens" }

// ScheduledJob records the last run of a background job.
type ScheduledJob struct {
	Name           string    `gorm:"primaryKey;column:name"`
	LastRunAt      time.Time `gorm:"column:last_run_at"`
	LastDurationMs int64     `gorm:"column:last_duration_ms"`
	LastSuccess    int       `gorm:"column:last_success"`
	LastError      string    `gorm:"column:last_error"`
}

func (ScheduledJob) TableName() string { return "scheduled_jobs" }
