package taxonomy

// DefaultCategories is the built-in taxonomy used when no taxonomy file is
// configured.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Work-Related", Subcategories: []string{
			"Employment Contracts", "Performance Reviews", "Meeting Notes",
			"Technical Documentation", "Certifications & Training",
			"Payslips & Financial Records", "Project Reports",
			"Code Documentation", "Reference Materials", "Business Plans",
			"Marketing Materials", "Client Presentations", "Proposals",
			"HR Documents", "Company Policies", "Travel Expenses",
			"Sales Reports", "Vendor Contracts", "Internal Memos",
		}},
		{Name: "College/Academics", Subcategories: []string{
			"Lecture Notes", "Assignments & Homework", "Research Papers",
			"Exam Papers & Solutions", "Course Syllabi", "Academic Transcripts",
			"Certificates & Diplomas", "College Applications", "Study Materials",
			"Lab Reports", "Thesis Documents", "Grant Proposals",
			"Conference Papers", "Academic References", "Research Data",
			"Project Documentation", "Scholarship Applications", "Academic Publications",
		}},
		{Name: "Personal Finance", Subcategories: []string{
			"Bank Statements", "Tax Returns", "Investment Records",
			"Insurance Policies", "Credit Card Statements", "Loan Documents",
			"Property Documents", "Receipts & Invoices", "Budget Plans",
			"Retirement Plans", "Financial Planning", "Asset Documentation",
			"Mortgage Documents", "Vehicle Finance", "Cryptocurrency Records",
		}},
		{Name: "Legal Documents", Subcategories: []string{
			"Contracts & Agreements", "Court Documents", "Power of Attorney",
			"Wills & Trusts", "Legal Correspondence", "Patents & Trademarks",
			"Property Deeds", "Business Licenses", "Immigration Documents",
			"Marriage Certificates", "Birth Certificates", "Legal Notices",
			"Affidavits", "NDAs", "Regulatory Compliance",
		}},
		{Name: "Healthcare", Subcategories: []string{
			"Medical Records", "Prescriptions", "Lab Results",
			"Insurance Claims", "Vaccination Records", "Medical Bills",
			"Health Insurance Policies", "Doctor's Notes", "Treatment Plans",
			"Medical History", "Dental Records", "Specialist Reports",
			"Mental Health Records", "Fitness Plans", "Nutrition Plans",
		}},
		{Name: "Personal Identity", Subcategories: []string{
			"Passport", "Driver's License", "Social Security",
			"Birth Certificate", "Marriage License", "Military ID",
			"Voter Registration", "Citizenship Documents", "Professional Licenses",
			"Emergency Contacts", "Personal References", "Background Checks",
		}},
		{Name: "Home & Property", Subcategories: []string{
			"Property Deeds", "Lease Agreements", "Mortgage Documents",
			"Home Insurance", "Maintenance Records", "Utility Bills",
			"Renovation Plans", "Home Inventory", "Warranties",
			"Property Tax Records", "HOA Documents", "Building Permits",
			"Construction Contracts", "Property Surveys", "Home Inspections",
		}},
		{Name: "Vehicle Documents", Subcategories: []string{
			"Vehicle Registration", "Insurance Policies", "Service Records",
			"Purchase Agreements", "Warranty Information", "Accident Reports",
			"Repair Records", "Vehicle Titles", "Loan Documents",
			"Fuel Logs", "Maintenance Schedule", "Vehicle Modifications",
		}},
		{Name: "Digital Assets", Subcategories: []string{
			"Software Licenses", "Domain Registrations", "Digital Certificates",
			"Cryptocurrency Keys", "Cloud Service Agreements", "API Documentation",
			"Digital Product Receipts", "Online Subscriptions", "Password Records",
			"Digital Identity Documents", "NFT Records", "Digital Rights Management",
		}},
		{Name: "Travel", Subcategories: []string{
			"Passports", "Visas", "Travel Insurance",
			"Itineraries", "Booking Confirmations", "Vaccination Records",
			"Travel Receipts", "Maps & Guides", "Travel Permits",
			"Currency Exchange", "Loyalty Programs", "Emergency Contacts",
		}},
	}
}
