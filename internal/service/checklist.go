package service

import "dealflow.app/hub/internal/model"

// The default DD checklist attached to every new deal. Financial items carry
// high priority, everything else medium.
var diligenceCategories = []model.DiligenceCategory{
	model.DiligenceLegal,
	model.DiligenceFinancial,
	model.DiligenceTechnical,
	model.DiligenceMarket,
	model.DiligenceTeam,
}

var diligenceTemplate = map[model.DiligenceCategory][]string{
	model.DiligenceLegal: {
		"Corporate structure and cap table review",
		"IP ownership and patents verification",
		"Employment agreements and key person insurance",
		"Litigation history and ongoing disputes",
		"Regulatory compliance review",
	},
	model.DiligenceFinancial: {
		"Historical financials audit (3 years)",
		"Revenue recognition and quality of earnings",
		"Unit economics analysis",
		"Burn rate and runway calculation",
		"Customer concentration analysis",
		"Working capital requirements",
	},
	model.DiligenceTechnical: {
		"Technology architecture review",
		"Scalability assessment",
		"Security audit",
		"Code quality and technical debt",
		"Data privacy and protection",
		"Third-party dependencies",
	},
	model.DiligenceMarket: {
		"TAM/SAM/SOM validation",
		"Competitive landscape analysis",
		"Customer interviews (10+)",
		"Market growth projections",
		"Go-to-market strategy review",
		"Pricing strategy validation",
	},
	model.DiligenceTeam: {
		"Founder background checks",
		"Key employee interviews",
		"Organization structure review",
		"Compensation and equity analysis",
		"Culture assessment",
		"Hiring plan evaluation",
	},
}

func checklistPriority(category model.DiligenceCategory) model.Priority {
	if category == model.DiligenceFinancial {
		return model.PriorityHigh
	}
	return model.PriorityMedium
}
