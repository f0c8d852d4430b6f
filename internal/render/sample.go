package render

// sampleCSV mirrors the example shown next to the upload form.
const sampleCSV = `country,division,fullName,salesRepEmail,fromDate,toDate,logins
Malaysia,Endo,John Doe,john.doe@company.com,20250616,20250622,12
Singapore,PI,Jane Smith,jane.smith@company.com,20250616,20250622,5
Malaysia,IC,Bob Johnson,bob.johnson@company.com,20250623,20250629,8
`

// ColumnHelp describes each accepted column, required ones first.
var ColumnHelp = []struct {
	Name        string
	Required    bool
	Description string
}{
	{"country", true, "Country where the user is located"},
	{"division", true, "User's department or division"},
	{"fullName", true, "User's full name"},
	{"fromDate", true, "Start date of the week (format: YYYYMMDD)"},
	{"toDate", true, "End date of the week (format: YYYYMMDD)"},
	{"logins", true, "Number of login sessions for the user in that week"},
	{"salesRepEmail", false, "User's email address"},
	{"viewHomeCounts, createEvents, ...", false, "Additional numeric activity metrics"},
}

// TemplateCSV returns a small upload file in the expected format.
func TemplateCSV() string {
	return sampleCSV
}
