package domain

// SourceKind classifies a cited reference document.
// The stored values keep the branded names used on the wire.
type SourceKind string

const (
	SourceKindStandard   SourceKind = "gost"   // national standard
	SourceKindRegulation SourceKind = "pue"    // installation regulations
	SourceKindManual     SourceKind = "manual" // equipment manual
	SourceKindOther      SourceKind = "other"
)

// Source is a reference document cited by an assistant message.
// Sources are immutable after creation.
type Source struct {
	ID    string
	Title string
	Kind  SourceKind
	URL   string
}
