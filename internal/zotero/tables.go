// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

// Static mapping data. Loaded once, never mutated at runtime.

// itemTypeToCSL maps Zotero item types onto CSL-JSON types. Anything
// missing maps to "document".
var itemTypeToCSL = map[string]string{
	"artwork":             "graphic",
	"audioRecording":      "song",
	"bill":                "bill",
	"blogPost":            "post-weblog",
	"book":                "book",
	"bookSection":         "chapter",
	"case":                "legal_case",
	"computerProgram":     "software",
	"conferencePaper":     "paper-conference",
	"dictionaryEntry":     "entry-dictionary",
	"document":            "document",
	"email":               "personal_communication",
	"encyclopediaArticle": "entry-encyclopedia",
	"film":                "motion_picture",
	"forumPost":           "post",
	"hearing":             "hearing",
	"instantMessage":      "personal_communication",
	"interview":           "interview",
	"journalArticle":      "article-journal",
	"letter":              "personal_communication",
	"magazineArticle":     "article-magazine",
	"manuscript":          "manuscript",
	"map":                 "map",
	"newspaperArticle":    "article-newspaper",
	"patent":              "patent",
	"podcast":             "song",
	"preprint":            "article",
	"presentation":        "speech",
	"radioBroadcast":      "broadcast",
	"report":              "report",
	"statute":             "legislation",
	"thesis":              "thesis",
	"tvBroadcast":         "broadcast",
	"videoRecording":      "motion_picture",
	"webpage":             "webpage",
}

// creatorRoleToCSL maps Zotero creator types onto CSL contributor roles.
// Unlisted creator types keep their Zotero name as the role.
var creatorRoleToCSL = map[string]string{
	"author":       "author",
	"bookAuthor":   "container-author",
	"composer":     "composer",
	"contributor":  "contributor",
	"director":     "director",
	"editor":       "editor",
	"interviewer":  "interviewer",
	"recipient":    "recipient",
	"reporter":     "author",
	"reviewedAuthor": "reviewed-author",
	"seriesEditor": "collection-editor",
	"translator":   "translator",
}

type converter int

const (
	convNone converter = iota
	convType
	convDate
	convCreators
	convTags
)

// fieldRule projects one Zotero source field onto one CSL target field,
// optionally restricted to certain item types and optionally routed through
// a typed converter.
type fieldRule struct {
	source       string
	target       string
	conv         converter
	whenItemType []string
	zoteroOnly   bool // stashed as the internal Zotero key, not a CSL field
	extraField   bool // stashed for extra-field parsing, merged later
}

// fieldRules is the declarative Zotero→CSL projection table. Rules apply
// in order; later rules do not overwrite earlier assignments of the same
// target.
var fieldRules = []fieldRule{
	{source: "key", target: "id", zoteroOnly: true},
	{source: "itemType", target: "type", conv: convType},
	{source: "title", target: "title"},
	{source: "shortTitle", target: "title-short"},
	{source: "abstractNote", target: "abstract"},

	// Container titles, by item type.
	{source: "publicationTitle", target: "container-title"},
	{source: "bookTitle", target: "container-title", whenItemType: []string{"bookSection"}},
	{source: "proceedingsTitle", target: "container-title", whenItemType: []string{"conferencePaper"}},
	{source: "encyclopediaTitle", target: "container-title", whenItemType: []string{"encyclopediaArticle"}},
	{source: "dictionaryTitle", target: "container-title", whenItemType: []string{"dictionaryEntry"}},
	{source: "websiteTitle", target: "container-title", whenItemType: []string{"webpage"}},
	{source: "blogTitle", target: "container-title", whenItemType: []string{"blogPost"}},
	{source: "forumTitle", target: "container-title", whenItemType: []string{"forumPost"}},
	{source: "programTitle", target: "container-title", whenItemType: []string{"radioBroadcast", "tvBroadcast"}},

	{source: "seriesTitle", target: "collection-title"},
	{source: "series", target: "collection-title"},
	{source: "seriesNumber", target: "collection-number"},

	{source: "publisher", target: "publisher"},
	{source: "university", target: "publisher", whenItemType: []string{"thesis"}},
	{source: "institution", target: "publisher", whenItemType: []string{"report"}},
	{source: "company", target: "publisher", whenItemType: []string{"computerProgram"}},
	{source: "label", target: "publisher", whenItemType: []string{"audioRecording"}},
	{source: "studio", target: "publisher", whenItemType: []string{"videoRecording", "film"}},
	{source: "place", target: "publisher-place"},

	{source: "volume", target: "volume"},
	{source: "numberOfVolumes", target: "number-of-volumes"},
	{source: "issue", target: "issue"},
	{source: "pages", target: "page"},
	{source: "numPages", target: "number-of-pages"},
	{source: "edition", target: "edition"},
	{source: "section", target: "section", whenItemType: []string{"newspaperArticle"}},

	{source: "thesisType", target: "genre", whenItemType: []string{"thesis"}},
	{source: "reportType", target: "genre", whenItemType: []string{"report"}},
	{source: "websiteType", target: "genre", whenItemType: []string{"webpage", "blogPost"}},
	{source: "presentationType", target: "genre", whenItemType: []string{"presentation"}},
	{source: "reportNumber", target: "number", whenItemType: []string{"report"}},
	{source: "patentNumber", target: "number", whenItemType: []string{"patent"}},
	{source: "billNumber", target: "number", whenItemType: []string{"bill"}},
	{source: "episodeNumber", target: "number", whenItemType: []string{"podcast", "radioBroadcast", "tvBroadcast"}},

	{source: "meetingName", target: "event-title"},
	{source: "conferenceName", target: "event-title", whenItemType: []string{"conferencePaper"}},

	{source: "DOI", target: "DOI"},
	{source: "ISBN", target: "ISBN"},
	{source: "ISSN", target: "ISSN"},
	{source: "url", target: "URL"},
	{source: "language", target: "language"},
	{source: "rights", target: "license"},
	{source: "archive", target: "archive"},
	{source: "archiveLocation", target: "archive_location"},
	{source: "callNumber", target: "call-number"},
	{source: "libraryCatalog", target: "source"},
	{source: "runningTime", target: "dimensions"},

	{source: "date", target: "issued", conv: convDate},
	{source: "accessDate", target: "accessed", conv: convDate},
	{source: "filingDate", target: "submitted", conv: convDate, whenItemType: []string{"patent"}},

	// Grouped creator lists (assembled before rule application).
	{source: "author", target: "author", conv: convCreators},
	{source: "container-author", target: "container-author", conv: convCreators},
	{source: "editor", target: "editor", conv: convCreators},
	{source: "collection-editor", target: "collection-editor", conv: convCreators},
	{source: "translator", target: "translator", conv: convCreators},
	{source: "contributor", target: "contributor", conv: convCreators},
	{source: "director", target: "director", conv: convCreators},
	{source: "interviewer", target: "interviewer", conv: convCreators},
	{source: "recipient", target: "recipient", conv: convCreators},
	{source: "composer", target: "composer", conv: convCreators},
	{source: "reviewed-author", target: "reviewed-author", conv: convCreators},

	{source: "tags", target: "keyword", conv: convTags},
	{source: "extra", target: "note", extraField: true},
}

// preserveCaseFields lists CSL field names whose canonical spelling is
// upper-case; lowercased variants picked up during processing are renamed
// back before the record leaves the mapper.
var preserveCaseFields = []string{"DOI", "ISBN", "ISSN", "URL"}

// extraFieldToCSL maps keys found in Zotero's free-text Extra field onto
// CSL fields. Lookup is exact first, then case-insensitive; unknown keys
// fall back to lowercase-with-hyphens.
var extraFieldToCSL = map[string]string{
	"Citation Key":  "citation-key",
	"DOI":           "DOI",
	"ISBN":          "ISBN",
	"ISSN":          "ISSN",
	"PMID":          "PMID",
	"PMCID":         "PMCID",
	"arXiv":         "arxiv",
	"Original Date": "original-date",
	"Event Date":    "event-date",
	"Status":        "status",
	"Genre":         "genre",
	"Medium":        "medium",
}
