package catalog

import "time"

const (
	TypeInspection   = "inspection"
	TypeConsultation = "consultation"
	TypeDesign       = "design"
	TypeRepair       = "repair"
)

type Service struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	ServiceType string    `bson:"service_type" json:"service_type"`
	IsOnline    bool      `bson:"is_online" json:"is_online"`
	Photos      []string  `bson:"photos" json:"photos"`
	ProviderID  string    `bson:"provider_id,omitempty" json:"provider_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type Restrictions struct {
	Level              string `json:"level"`
	DensityLimits      string `json:"density_limits"`
	MaskRequired       bool   `json:"mask_required"`
	QuarantineRequired bool   `json:"quarantine_required"`
	LastUpdated        string `json:"last_updated"`
	Message            string `json:"message"`
}

type SuggestionsResponse struct {
	Suggestions  []string     `json:"suggestions"`
	Restrictions Restrictions `json:"restrictions"`
}

// seedServices is the fixed catalog inserted once when the collection
// is empty. The catalog is immutable afterwards; no API mutates it.
var seedServices = []Service{
	{
		Name:        "Virtual Home Inspection",
		Description: "Complete home inspection via video call. Our experts guide you through a thorough assessment.",
		Price:       150.0,
		ServiceType: TypeInspection,
		IsOnline:    true,
	},
	{
		Name:        "Online Renovation Consultation",
		Description: "Plan your dream renovation from home. Expert advice on design, materials, and budgeting.",
		Price:       200.0,
		ServiceType: TypeConsultation,
		IsOnline:    true,
	},
	{
		Name:        "Remote Design Planning",
		Description: "Professional interior design services delivered online. Receive 3D renders and shopping lists.",
		Price:       300.0,
		ServiceType: TypeDesign,
		IsOnline:    true,
	},
	{
		Name:        "Virtual Maintenance Consultation",
		Description: "Get expert advice on home repairs via video. DIY guidance or schedule an in-person visit.",
		Price:       100.0,
		ServiceType: TypeRepair,
		IsOnline:    true,
	},
	{
		Name:        "COVID-Safe In-Person Assessment",
		Description: "For urgent needs only. Full PPE protocols. Subject to current restriction levels.",
		Price:       250.0,
		ServiceType: TypeInspection,
		IsOnline:    false,
	},
}
