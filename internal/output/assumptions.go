package output

// DefaultAssumptions lists the fixed rules rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Social insurance contribution: 30% of the contribution base (20% pension, 10% medical)",
	"Personal pension account: 8% of the contribution base, 12 months a year",
	"Contribution base: average salary x contribution ratio while working, prior base while retired",
	"Pension eligibility: age 60 with at least 20 pension years",
	"Contributions continue after retirement until 20 pension and 25 medical years",
	"Housing fund grows only while working",
}
