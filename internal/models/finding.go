package models

// Severity is the risk level Anchore assigns to a vulnerability.
type Severity string

const (
	SeverityUnknown    Severity = "Unknown"
	SeverityNegligible Severity = "Negligible"
	SeverityLow        Severity = "Low"
	SeverityMedium     Severity = "Medium"
	SeverityHigh       Severity = "High"
	SeverityCritical   Severity = "Critical"
)

// NoFix is the sentinel Anchore writes in the fix column when no fixed
// version is available.
const NoFix = "None"

// Vulnerability is a single entry of an Anchore scan report as written by
// `anchore-cli image vuln <image> all --json`.
type Vulnerability struct {
	Severity       Severity `json:"severity"`
	Fix            string   `json:"fix"`
	PackageName    string   `json:"package_name"`
	PackageVersion string   `json:"package_version"`
	PackageType    string   `json:"package_type,omitempty"`
	Package        string   `json:"package,omitempty"`
	PackagePath    string   `json:"package_path,omitempty"`
	Vuln           string   `json:"vuln"`
	URL            string   `json:"url"`
	Feed           string   `json:"feed,omitempty"`
	FeedGroup      string   `json:"feed_group,omitempty"`
}

// ScanReport is the top-level document of one scan_*.json file.
type ScanReport struct {
	ImageDigest     string          `json:"imageDigest,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// ReportFile is a discovered report with its raw content.
type ReportFile struct {
	Path    string
	Source  string
	Content []byte
}

// Finding is a vulnerability attributed to the image it was found in.
type Finding struct {
	Source           string   `json:"source"`
	PackageName      string   `json:"package_name"`
	PackageVersion   string   `json:"package_version"`
	Fix              string   `json:"fix"`
	VulnerabilityID  string   `json:"vulnerability_id"`
	VulnerabilityURL string   `json:"vulnerability_url"`
	Severity         Severity `json:"severity"`
}

// NewFinding attributes v to source.
func NewFinding(source string, v Vulnerability) Finding {
	return Finding{
		Source:           source,
		PackageName:      v.PackageName,
		PackageVersion:   v.PackageVersion,
		Fix:              v.Fix,
		VulnerabilityID:  v.Vuln,
		VulnerabilityURL: v.URL,
		Severity:         v.Severity,
	}
}

// IsActionable reports whether the finding is high severity and has a fix.
// Both comparisons are exact and case-sensitive.
func (f Finding) IsActionable() bool {
	return f.Severity == SeverityHigh && f.Fix != NoFix
}

// Link returns the markdown link used in the vulnerability column.
func (f Finding) Link() string {
	return "[" + f.VulnerabilityID + "](" + f.VulnerabilityURL + ")"
}
