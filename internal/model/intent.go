package model

import (
	"strconv"
	"strings"
	"time"
)

// Enum values below are the canonical wire/storage spelling. The zero value of every
// enum is "unknown" and is always safe to score (it contributes nothing).

type Industry string

const (
	IndustryUnknown           Industry = ""
	IndustryTechnology        Industry = "technology"
	IndustrySaaS              Industry = "saas"
	IndustryFinancialServices Industry = "financial-services"
	IndustryRealEstate        Industry = "real-estate"
	IndustryHealthcare        Industry = "healthcare"
	IndustryEcommerce         Industry = "ecommerce"
	IndustryManufacturing     Industry = "manufacturing"
	IndustryEducation         Industry = "education"
	IndustryAgency            Industry = "agency"
	IndustryOther             Industry = "other"
)

type Role string

const (
	RoleUnknown      Role = ""
	RoleCEO          Role = "ceo"
	RoleFounder      Role = "founder"
	RoleCTO          Role = "cto"
	RoleVPSales      Role = "vp-sales"
	RoleHeadOfGrowth Role = "head-of-growth"
	RoleDirector     Role = "director"
	RoleManager      Role = "manager"
	RoleIndividual   Role = "individual-contributor"
	RoleOther        Role = "other"
)

type Urgency string

const (
	UrgencyUnknown     Urgency = ""
	UrgencyImmediate   Urgency = "immediate"
	UrgencyThisMonth   Urgency = "this-month"
	UrgencyThisQuarter Urgency = "this-quarter"
	UrgencyNextQuarter Urgency = "next-quarter"
	UrgencyExploring   Urgency = "exploring"
)

type TeamSize string

const (
	TeamSizeUnknown   TeamSize = ""
	TeamSize1To10     TeamSize = "1-10"
	TeamSize11To50    TeamSize = "11-50"
	TeamSize51To200   TeamSize = "51-200"
	TeamSize201To1000 TeamSize = "201-1000"
	TeamSize1000Plus  TeamSize = "1000+"
)

type FundingStage string

const (
	FundingUnknown      FundingStage = ""
	FundingBootstrapped FundingStage = "bootstrapped"
	FundingSeed         FundingStage = "seed"
	FundingSeriesA      FundingStage = "series-a"
	FundingSeriesB      FundingStage = "series-b"
	FundingSeriesCPlus  FundingStage = "series-c+"
	FundingPublic       FundingStage = "public"
)

type Budget string

const (
	BudgetUnknown   Budget = ""
	BudgetUnder10k  Budget = "under-10k"
	Budget10kTo25k  Budget = "10k-25k"
	Budget25kTo50k  Budget = "25k-50k"
	Budget50kTo100k Budget = "50k-100k"
	Budget100kPlus  Budget = "100k+"
)

// Channel identifies which ingestion surface produced a profile.
type Channel string

const (
	ChannelIntake    Channel = "intake"
	ChannelExtension Channel = "extension"
	ChannelPayment   Channel = "payment"
)

// IntentSignals are passive-observation scores (0-100) reported by the browser extension.
type IntentSignals struct {
	Sources    []string `json:"sources,omitempty"`
	Hiring     int      `json:"hiring"`
	Funding    int      `json:"funding"`
	Expansion  int      `json:"expansion"`
	TechChange int      `json:"techChange"`
}

// IntentProfile is the canonical view of a contact regardless of which surface reported it.
type IntentProfile struct {
	ReceivedAt    time.Time      `json:"receivedAt"`
	IntentSignals *IntentSignals `json:"intentSignals,omitempty"`
	Email         string         `json:"email,omitempty"`
	FirstName     string         `json:"firstName,omitempty"`
	LastName      string         `json:"lastName,omitempty"`
	Company       string         `json:"company,omitempty"`
	Domain        string         `json:"domain,omitempty"`
	Timeline      string         `json:"timeline,omitempty"`
	UseCase       string         `json:"useCase,omitempty"`
	Source        string         `json:"source"`
	Channel       Channel        `json:"channel"`
	Industry      Industry       `json:"industry,omitempty"`
	Role          Role           `json:"role,omitempty"`
	Urgency       Urgency        `json:"urgency,omitempty"`
	TeamSize      TeamSize       `json:"teamSize,omitempty"`
	FundingStage  FundingStage   `json:"fundingStage,omitempty"`
	Budget        Budget         `json:"budget,omitempty"`
}

func (p IntentProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName prefers the person's name, then the email, then the company.
func (p IntentProfile) DisplayName() string {
	if name := p.FullName(); name != "" {
		return name
	}
	if p.Email != "" {
		return p.Email
	}
	if p.Company != "" {
		return p.Company
	}
	return "unknown contact"
}

var industryAliases = map[string]Industry{
	"technology":         IndustryTechnology,
	"tech":               IndustryTechnology,
	"software":           IndustryTechnology,
	"saas":               IndustrySaaS,
	"financial-services": IndustryFinancialServices,
	"finance":            IndustryFinancialServices,
	"fintech":            IndustryFinancialServices,
	"real-estate":        IndustryRealEstate,
	"realestate":         IndustryRealEstate,
	"healthcare":         IndustryHealthcare,
	"health":             IndustryHealthcare,
	"ecommerce":          IndustryEcommerce,
	"e-commerce":         IndustryEcommerce,
	"retail":             IndustryEcommerce,
	"manufacturing":      IndustryManufacturing,
	"education":          IndustryEducation,
	"agency":             IndustryAgency,
	"other":              IndustryOther,
}

var roleAliases = map[string]Role{
	"ceo":                    RoleCEO,
	"chief-executive":        RoleCEO,
	"founder":                RoleFounder,
	"co-founder":             RoleFounder,
	"cofounder":              RoleFounder,
	"cto":                    RoleCTO,
	"vp-sales":               RoleVPSales,
	"vp-of-sales":            RoleVPSales,
	"head-of-growth":         RoleHeadOfGrowth,
	"director":               RoleDirector,
	"manager":                RoleManager,
	"individual-contributor": RoleIndividual,
	"ic":                     RoleIndividual,
	"other":                  RoleOther,
}

var urgencyAliases = map[string]Urgency{
	"immediate":      UrgencyImmediate,
	"asap":           UrgencyImmediate,
	"now":            UrgencyImmediate,
	"this-month":     UrgencyThisMonth,
	"this-quarter":   UrgencyThisQuarter,
	"next-quarter":   UrgencyNextQuarter,
	"exploring":      UrgencyExploring,
	"just-exploring": UrgencyExploring,
}

var teamSizeAliases = map[string]TeamSize{
	"1-10":     TeamSize1To10,
	"11-50":    TeamSize11To50,
	"51-200":   TeamSize51To200,
	"201-1000": TeamSize201To1000,
	"201-500":  TeamSize201To1000,
	"501-1000": TeamSize201To1000,
	"1000+":    TeamSize1000Plus,
	"1001+":    TeamSize1000Plus,
}

var fundingAliases = map[string]FundingStage{
	"bootstrapped": FundingBootstrapped,
	"pre-seed":     FundingSeed,
	"seed":         FundingSeed,
	"series-a":     FundingSeriesA,
	"series-b":     FundingSeriesB,
	"series-c+":    FundingSeriesCPlus,
	"series-c":     FundingSeriesCPlus,
	"series-d":     FundingSeriesCPlus,
	"series-e":     FundingSeriesCPlus,
	"public":       FundingPublic,
	"ipo":          FundingPublic,
}

var budgetAliases = map[string]Budget{
	"under-10k": BudgetUnder10k,
	"<10k":      BudgetUnder10k,
	"0-10k":     BudgetUnder10k,
	"10k-25k":   Budget10kTo25k,
	"10k+":      Budget10kTo25k,
	"25k-50k":   Budget25kTo50k,
	"50k-100k":  Budget50kTo100k,
	"50k+":      Budget50kTo100k,
	"100k+":     Budget100kPlus,
}

func ParseIndustry(raw string) Industry {
	return industryAliases[normalizeToken(raw)]
}

func ParseRole(raw string) Role {
	return roleAliases[normalizeToken(raw)]
}

func ParseUrgency(raw string) Urgency {
	return urgencyAliases[normalizeToken(raw)]
}

// ParseTeamSize accepts bucket names or a plain headcount such as "250".
func ParseTeamSize(raw string) TeamSize {
	token := normalizeToken(raw)
	if size, ok := teamSizeAliases[token]; ok {
		return size
	}
	n, err := strconv.Atoi(strings.ReplaceAll(token, ",", ""))
	if err != nil || n <= 0 {
		return TeamSizeUnknown
	}
	switch {
	case n <= 10:
		return TeamSize1To10
	case n <= 50:
		return TeamSize11To50
	case n <= 200:
		return TeamSize51To200
	case n <= 1000:
		return TeamSize201To1000
	default:
		return TeamSize1000Plus
	}
}

func ParseFundingStage(raw string) FundingStage {
	return fundingAliases[normalizeToken(raw)]
}

// ParseBudget accepts canonical buckets as well as loose spellings like "$50k+".
func ParseBudget(raw string) Budget {
	token := strings.TrimPrefix(normalizeToken(raw), "$")
	token = strings.ReplaceAll(token, "$", "")
	if b, ok := budgetAliases[token]; ok {
		return b
	}
	switch {
	case strings.Contains(token, "100k+"):
		return Budget100kPlus
	case strings.Contains(token, "50k+"):
		return Budget50kTo100k
	case strings.Contains(token, "10k+"):
		return Budget10kTo25k
	}
	return BudgetUnknown
}

// normalizeToken lowercases and converts spaces/underscores to hyphens so
// "Series A", "series_a" and "series-a" all resolve to the same constant.
func normalizeToken(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
