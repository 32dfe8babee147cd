package model

import (
	"time"
)

// ServiceCategory is immutable reference data for the service types the
// marketplace supports (electrical, plumbing, ...).
type ServiceCategory struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Icon        string    `gorm:"column:icon;type:varchar(16)" json:"icon"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ServiceCategory) TableName() string { return "service_categories" }

// Provider is a registered service provider.
// Rating and TotalJobs are aggregates owned by the match lifecycle: they are
// updated when a match completes, not by the normal provider edit path.
type Provider struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Phone        string    `gorm:"column:phone;type:varchar(32);not null" json:"phone"`
	LineID       string    `gorm:"column:line_id;type:varchar(64)" json:"line_id"`
	CategoryID   uint64    `gorm:"column:category_id;type:bigint;not null;index" json:"category_id"`
	Location     string    `gorm:"column:location;type:varchar(256)" json:"location"`
	District     string    `gorm:"column:district;type:varchar(64)" json:"district"`
	Subdistrict  string    `gorm:"column:subdistrict;type:varchar(64)" json:"subdistrict"`
	Province     string    `gorm:"column:province;type:varchar(64)" json:"province"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	PriceRange   string    `gorm:"column:price_range;type:varchar(64)" json:"price_range"`
	Availability string    `gorm:"column:availability;type:varchar(128)" json:"availability"`
	Rating       float64   `gorm:"column:rating;type:numeric(3,2);default:0" json:"rating"`
	TotalJobs    int       `gorm:"column:total_jobs;type:int;default:0" json:"total_jobs"`
	// No column default: a default:true tag would make GORM drop an explicit
	// false from the INSERT. The create paths set this field themselves.
	IsActive  bool      `gorm:"column:is_active;type:boolean" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Provider) TableName() string { return "service_providers" }

// Urgency levels accepted on a customer request.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Preferred contact channels.
const (
	ContactPhone = "phone"
	ContactLine  = "line"
	ContactBoth  = "both"
)

// Customer is a posted service request together with the requester's contact
// and address details.
type Customer struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Phone            string    `gorm:"column:phone;type:varchar(32);not null" json:"phone"`
	LineID           string    `gorm:"column:line_id;type:varchar(64)" json:"line_id"`
	Location         string    `gorm:"column:location;type:varchar(256)" json:"location"`
	District         string    `gorm:"column:district;type:varchar(64)" json:"district"`
	Subdistrict      string    `gorm:"column:subdistrict;type:varchar(64)" json:"subdistrict"`
	Province         string    `gorm:"column:province;type:varchar(64)" json:"province"`
	CategoryID       uint64    `gorm:"column:category_id;type:bigint;not null;index" json:"category_id"`
	JobDescription   string    `gorm:"column:job_description;type:text" json:"job_description"`
	BudgetRange      string    `gorm:"column:budget_range;type:varchar(64)" json:"budget_range"`
	UrgencyLevel     string    `gorm:"column:urgency_level;type:varchar(16);default:medium" json:"urgency_level"`
	PreferredContact string    `gorm:"column:preferred_contact;type:varchar(16);default:phone" json:"preferred_contact"`
	IsActive         bool      `gorm:"column:is_active;type:boolean" json:"is_active"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
