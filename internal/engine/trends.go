package engine

// SeasonalPattern summarizes condition prevalence for one season.
type SeasonalPattern struct {
	Season           string   `json:"season"`
	CommonConditions []string `json:"common_conditions"`
	Trend            string   `json:"trend"`
}

// AgeGroupInsight summarizes condition prevalence for one age band.
type AgeGroupInsight struct {
	Group            string   `json:"group"`
	CommonConditions []string `json:"common_conditions"`
	Note             string   `json:"note"`
}

// DemographicInsights groups population-level observations.
type DemographicInsights struct {
	AgeGroups      []AgeGroupInsight `json:"age_groups"`
	GenderPatterns map[string]string `json:"gender_patterns"`
}

// TrendsReport is the static health-trends summary served to the
// predictive dashboard.
type TrendsReport struct {
	SeasonalPatterns    []SeasonalPattern   `json:"seasonal_patterns"`
	DemographicInsights DemographicInsights `json:"demographic_insights"`
}

// Trends returns the pre-computed seasonal and demographic summary. The
// payload is fixed; no per-request computation is involved.
func Trends() TrendsReport {
	return TrendsReport{
		SeasonalPatterns: []SeasonalPattern{
			{
				Season:           "Winter",
				CommonConditions: []string{"Influenza", "Pneumonia", "Asthma Exacerbation"},
				Trend:            "increasing",
			},
			{
				Season:           "Spring",
				CommonConditions: []string{"Asthma Exacerbation", "Migraine"},
				Trend:            "stable",
			},
			{
				Season:           "Summer",
				CommonConditions: []string{"Migraine", "Arrhythmia"},
				Trend:            "stable",
			},
			{
				Season:           "Autumn",
				CommonConditions: []string{"Influenza", "Pneumonia"},
				Trend:            "increasing",
			},
		},
		DemographicInsights: DemographicInsights{
			AgeGroups: []AgeGroupInsight{
				{
					Group:            "0-4",
					CommonConditions: []string{"Influenza", "Asthma Exacerbation"},
					Note:             "Elevated respiratory risk; low diagnostic specificity of free-text reports.",
				},
				{
					Group:            "5-17",
					CommonConditions: []string{"Asthma Exacerbation", "Migraine"},
					Note:             "Mostly self-limiting presentations.",
				},
				{
					Group:            "18-64",
					CommonConditions: []string{"Migraine", "Influenza", "Arrhythmia"},
					Note:             "Broadest symptom mix; demographic factors stay neutral.",
				},
				{
					Group:            "65+",
					CommonConditions: []string{"Acute Coronary Syndrome", "Pneumonia"},
					Note:             "Age multiplier raises triage priority across categories.",
				},
			},
			GenderPatterns: map[string]string{
				"Male":   "Mild skew toward acute coronary presentations.",
				"Female": "Higher reported migraine incidence.",
			},
		},
	}
}

// ModelInfo describes one engine component for the service-metadata
// endpoint.
type ModelInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// Models lists the engine's components and versions.
func Models() []ModelInfo {
	return []ModelInfo{
		{
			Name:        "symptom-scorer",
			Version:     "1.0",
			Kind:        "rules",
			Description: "Weighted keyword lexicon with normalized severity scoring.",
		},
		{
			Name:        "diagnostic-ranker",
			Version:     "1.0",
			Kind:        "rules",
			Description: "Condition-table ranking with demographic adjustment.",
		},
		{
			Name:        "outcome-predictor",
			Version:     "1.0",
			Kind:        "rules",
			Description: "Category recovery models with complication-risk multipliers.",
		},
		{
			Name:        "trends-reporter",
			Version:     "1.0",
			Kind:        "static",
			Description: "Pre-computed seasonal and demographic summaries.",
		},
	}
}
