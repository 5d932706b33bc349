package igen

// Section identifies a documentation page section by its element id.
type Section string

// Known reference page sections.
const (
	SectionSynopsis       Section = "SYNOPSIS"
	SectionDescription    Section = "DESCRIPTION"
	SectionCommand        Section = "COMMAND"
	SectionGroup          Section = "GROUP"
	SectionPositionalArgs Section = "POSITIONAL-ARGUMENTS"
	SectionRequiredFlags  Section = "REQUIRED-FLAGS"
	SectionGlobalFlags    Section = "GLOBAL-FLAGS"
	SectionOtherFlags     Section = "OTHER-FLAGS"
)

// Link is a named hyperlink found in a GROUP or COMMAND section.
type Link struct {
	Name string
	Href string
}

// CommandPage holds the sections extracted from one command reference page.
// A section missing from the page leaves its field empty.
type CommandPage struct {
	Synopsis       string
	Description    string
	Groups         []Link
	Commands       []Link
	PositionalArgs *Flags
	RequiredFlags  *Flags
}

// PageExtractor extracts structured command data from reference page HTML.
type PageExtractor interface {
	// ExtractCommand parses a command or group reference page.
	// Absent sections yield empty values rather than errors.
	ExtractCommand(html string) (*CommandPage, error)

	// ExtractFlags parses the definition list of the given section.
	ExtractFlags(html string, section Section) (*Flags, error)

	// ExtractRoots returns the candidate top-level command links of the
	// reference index page. Callers filter them by path.
	ExtractRoots(html string) ([]Link, error)
}
