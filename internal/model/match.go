package model

import (
	"time"

	"gorm.io/datatypes"
)

// Match statuses (business relationship state). Closed set: any other value
// is a validation error.
const (
	MatchStatusPending   = "pending"
	MatchStatusAccepted  = "accepted"
	MatchStatusRejected  = "rejected"
	MatchStatusCompleted = "completed"
	MatchStatusCancelled = "cancelled"
)

// MatchStatuses lists the accepted status values in no particular order.
var MatchStatuses = []string{
	MatchStatusPending,
	MatchStatusAccepted,
	MatchStatusRejected,
	MatchStatusCompleted,
	MatchStatusCancelled,
}

// ValidMatchStatus reports whether s is in the closed status set.
func ValidMatchStatus(s string) bool {
	for _, v := range MatchStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Match pairs a provider with a customer. It carries two independent lifecycle
// fields: Status (business relationship) and JobProgress (execution stage).
// Neither is derived from the other and no cross-consistency is enforced.
type Match struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProviderID        uint64     `gorm:"column:provider_id;type:bigint;not null;index" json:"provider_id"`
	CustomerID        uint64     `gorm:"column:customer_id;type:bigint;not null;index" json:"customer_id"`
	MatchScore        float64    `gorm:"column:match_score;type:numeric(5,4);default:0" json:"match_score"`
	Status            string     `gorm:"column:status;type:varchar(16);default:pending" json:"status"`
	ProviderResponse  string     `gorm:"column:provider_response;type:text" json:"provider_response"`
	CustomerResponse  string     `gorm:"column:customer_response;type:text" json:"customer_response"`
	JobProgress       *string    `gorm:"column:job_progress;type:varchar(16)" json:"job_progress"`
	MatchDate         time.Time  `gorm:"column:match_date;autoCreateTime" json:"match_date"`
	ResponseDate      *time.Time `gorm:"column:response_date" json:"response_date"`
	ArrivalTime       *time.Time `gorm:"column:arrival_time" json:"arrival_time"`
	StartTime         *time.Time `gorm:"column:start_time" json:"start_time"`
	CompletionDate    *time.Time `gorm:"column:completion_date" json:"completion_date"`
	FinalCloseDate    *time.Time `gorm:"column:final_close_date" json:"final_close_date"`
	EstimatedDuration string     `gorm:"column:estimated_duration;type:varchar(64)" json:"estimated_duration"`
	ActualDuration    string     `gorm:"column:actual_duration;type:varchar(64)" json:"actual_duration"`
	FinalCost         *float64   `gorm:"column:final_cost;type:numeric(12,2)" json:"final_cost"`
	Rating            *int       `gorm:"column:rating;type:int" json:"rating"`
	Feedback          string     `gorm:"column:feedback;type:text" json:"feedback"`
}

func (Match) TableName() string { return "job_matches" }

// MatchHistory is the append-only audit log for a match. Rows are never
// updated or pruned.
type MatchHistory struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MatchID     uint64    `gorm:"column:match_id;type:bigint;not null;index" json:"match_id"`
	Action      string    `gorm:"column:action;type:varchar(32);not null" json:"action"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MatchHistory) TableName() string { return "match_history" }

// JobProgressTracking is the per-stage audit trail, finer grained than
// MatchHistory and written on every progress mutation. Status is the literal
// "completed" marker meaning the tracking entry itself is closed.
type JobProgressTracking struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MatchID      uint64         `gorm:"column:match_id;type:bigint;not null;index" json:"match_id"`
	Stage        string         `gorm:"column:stage;type:varchar(32);not null" json:"stage"`
	Status       string         `gorm:"column:status;type:varchar(16);default:completed" json:"status"`
	Notes        string         `gorm:"column:notes;type:text" json:"notes"`
	LocationInfo datatypes.JSON `gorm:"column:location_info;type:json" json:"location_info"`
	UpdatedBy    string         `gorm:"column:updated_by;type:varchar(32);default:system" json:"updated_by"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (JobProgressTracking) TableName() string { return "job_progress_tracking" }

// CustomerFeedback holds the one feedback row a customer may submit per match
// once the job reached the completed stage. Re-submission overwrites (upsert
// by match id). The booleans carry no column default: a default tag would make
// GORM drop explicit false values from the INSERT. Omitted booleans are
// defaulted to true by the service before the row gets here.
type CustomerFeedback struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MatchID        uint64    `gorm:"column:match_id;type:bigint;uniqueIndex;not null" json:"match_id"`
	OverallRating  int       `gorm:"column:overall_rating;type:int;not null" json:"overall_rating"`
	ServiceQuality int       `gorm:"column:service_quality;type:int;not null" json:"service_quality"`
	Punctuality    int       `gorm:"column:punctuality;type:int;not null" json:"punctuality"`
	Communication  int       `gorm:"column:communication;type:int;not null" json:"communication"`
	ValueForMoney  int       `gorm:"column:value_for_money;type:int;not null" json:"value_for_money"`
	FeedbackText   string    `gorm:"column:feedback_text;type:text" json:"feedback_text"`
	WouldRecommend bool      `gorm:"column:would_recommend;type:boolean" json:"would_recommend"`
	WouldUseAgain  bool      `gorm:"column:would_use_again;type:boolean" json:"would_use_again"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CustomerFeedback) TableName() string { return "customer_feedback" }
