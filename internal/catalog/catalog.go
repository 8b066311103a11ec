package catalog

import "ai-readiness-service/internal/domain"

// BuiltinID is the form ID served when no external catalog store is configured.
const BuiltinID = "ai-readiness"

// Country is one entry of the contact country picker.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Countries lists the offered countries; the code doubles as the phone-region
// hint for contact-number validation.
func Countries() []Country {
	return []Country{
		{Code: "KE", Name: "Kenya"},
		{Code: "NG", Name: "Nigeria"},
		{Code: "US", Name: "United States"},
		{Code: "CA", Name: "Canada"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "IN", Name: "India"},
	}
}

// Builtin returns the AI Readiness Assessment questionnaire.
func Builtin() domain.Catalog {
	return domain.Catalog{
		ID: BuiltinID,
		Sections: []domain.Section{
			{
				Title: "Use Cases",
				Questions: []domain.Question{
					{
						Key:     "q1",
						Prompt:  "What is the main reason you're considering AI in your organization?",
						Choices: []string{"Efficiency", "Costs", "Decision-making", "Customer experience", "Not sure"},
					},
					{
						Key:     "q2",
						Prompt:  "Do you already have areas or problems in mind where AI could help?",
						Choices: []string{"Yes", "Somewhat", "No"},
					},
				},
			},
			{
				Title: "Data Readiness",
				Questions: []domain.Question{
					{
						Key:     "q3",
						Prompt:  "How is your organization's data currently stored?",
						Choices: []string{"Digital", "Mixed", "Paper", "Not sure"},
					},
					{
						Key:     "q4",
						Prompt:  "Do you have enough data available for AI to work with?",
						Choices: []string{"Yes", "Partially", "No", "Not sure"},
					},
					{
						Key:     "q5",
						Prompt:  "Do you have data security or privacy measures in place?",
						Choices: []string{"Yes", "Partially", "No", "Not sure"},
					},
				},
			},
			{
				Title: "Technical Infrastructure",
				Questions: []domain.Question{
					{
						Key:      "q6",
						Prompt:   "Which tools or platforms do you currently use to manage operations?",
						Choices:  []string{"Microsoft 365 / Google Workspace", "CRM", "ERP", "None", "Other"},
						Multiple: true,
					},
					{
						Key:     "q7",
						Prompt:  "Can your current systems support AI tools or integrations?",
						Choices: []string{"Yes", "Somewhat", "No", "Not sure"},
					},
				},
			},
			{
				Title: "Team Readiness",
				Questions: []domain.Question{
					{
						Key:     "q8",
						Prompt:  "Does your team have technical expertise or experience with automation?",
						Choices: []string{"Yes", "Partially", "No"},
					},
					{
						Key:     "q9",
						Prompt:  "Is there leadership support for AI initiatives in your organization?",
						Choices: []string{"Yes", "Partially", "No", "Not sure"},
					},
					{
						Key:     "q10",
						Prompt:  "Are there resources (time, budget, staff) already allocated to AI projects?",
						Choices: []string{"Yes", "In progress", "No", "Not sure"},
					},
					{
						Key:     "q11",
						Prompt:  "Is there any training program or plan to support AI-related skills?",
						Choices: []string{"Yes", "In development", "No"},
					},
				},
			},
		},
	}
}
