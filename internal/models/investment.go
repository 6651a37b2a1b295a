package models

// InvestmentType is the inner classification ring.
type InvestmentType string

const (
	TypeDirect   InvestmentType = "directa"
	TypeIndirect InvestmentType = "indirecta"
	TypeCash     InvestmentType = "efectivo"
)

// SubCategories is the ordered middle-ring category set. Order matters:
// fallback classification indexes into this slice.
var SubCategories = []string{
	"fondos_inversion",
	"fondos_liquidos",
	"propiedades_inmobiliarias",
	"valores_negociables",
	"hedge_funds",
	"mixtos",
}

// DetailCategories is the ordered outer-ring asset-class set.
var DetailCategories = []string{
	"private_equity",
	"renta_variable",
	"renta_fija",
	"venture_capital",
	"deuda_privada",
	"infraestructura",
	"inmobiliario",
	"commodities",
	"empresas_no_cotizadas",
	"obras_arte",
}

// Investment is the canonical entity persisted by every sync run.
type Investment struct {
	ExternalID         string         `json:"external_id"`
	Name               string         `json:"name"`
	Amount             float64        `json:"amount"`
	ReturnPercentage   float64        `json:"return_percentage"`
	IsEconomicActivity bool           `json:"is_economic_activity"`
	Category           string         `json:"category"`
	SubCategory        string         `json:"sub_category"`
	DetailCategory     string         `json:"detail_category"`
	InvestmentType     InvestmentType `json:"investment_type"`
	AccountCode        string         `json:"account_code,omitempty"`
	Description        string         `json:"description,omitempty"`
	SourceEndpoint     string         `json:"source_endpoint,omitempty"`
}

// DashboardMetrics are derived from the full investment set on every read.
type DashboardMetrics struct {
	TotalInvestments           float64 `json:"totalInvestments"`
	EconomicActivityPercentage float64 `json:"economicActivityPercentage"`
	TotalReturn                float64 `json:"totalReturn"`
	TotalPositions             int     `json:"totalPositions"`
}

// CategorySplit is one side of a category breakdown (economic or not).
type CategorySplit struct {
	Total       float64      `json:"total"`
	Positions   int          `json:"positions"`
	Investments []Investment `json:"investments"`
}

// CategoryBreakdown is the per-category drill-down view: investments of one
// sub category split by economic-activity flag.
type CategoryBreakdown struct {
	Category    string        `json:"category"`
	Total       float64       `json:"total"`
	Positions   int           `json:"positions"`
	Economic    CategorySplit `json:"economic"`
	NonEconomic CategorySplit `json:"nonEconomic"`
}

// EndpointResult records the outcome of one upstream fetch during a sync run.
type EndpointResult struct {
	Endpoint string `json:"endpoint"`
	Records  int    `json:"records"`
	Error    string `json:"error,omitempty"`
}

// SyncResult is the response body of a sync run.
type SyncResult struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	RunID       string           `json:"run_id"`
	Endpoints   []EndpointResult `json:"endpoints"`
	Metrics     DashboardMetrics `json:"metrics"`
	Investments []Investment     `json:"investments"`
}
