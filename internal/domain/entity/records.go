package entity

// CourseRecord is one enrolled course as the dashboard renders it in
// summary mode. Category, SummaryText and ProgressText are optional and
// empty when the portal omits them.
type CourseRecord struct {
	Name         string
	URL          string
	Category     string
	SummaryText  string
	ProgressText string
}

// DeadlineEvent is one upcoming item from the timeline block. Date and
// Time are the portal's own display strings, copied verbatim; the portal's
// locale-dependent formatting is authoritative, so they are never parsed
// into calendar types.
type DeadlineEvent struct {
	Date  string
	Time  string
	Title string
	URL   string
}

// DisplayMode is the layout variant of the course-listing widget.
// Extraction is defined only for summary mode.
type DisplayMode string

const (
	DisplaySummary DisplayMode = "summary"
	DisplayUnknown DisplayMode = "unknown"
)

// ParseDisplayMode maps the widget's display attribute to a DisplayMode.
func ParseDisplayMode(attr string) DisplayMode {
	if attr == string(DisplaySummary) {
		return DisplaySummary
	}
	return DisplayUnknown
}
