package domain

import "fmt"

// SectionRow is one section entry derived from the BNSS index page.
type SectionRow struct {
	CanonicalID  string `json:"canonical_id"`
	Law          string `json:"law"`
	ChapterNo    int    `json:"chapter_no"`
	ChapterTitle string `json:"chapter_title"`
	SectionNo    int    `json:"section_no"`
	SectionTitle string `json:"section_title"`
	SourceURL    string `json:"source_url"`
	ContentHash  string `json:"content_hash"`
	Version      string `json:"version"`
}

// CrosswalkRow maps a BNSS section to its corresponding CrPC section.
type CrosswalkRow struct {
	BnssSectionNo    string `json:"bnss_section_no"`
	BnssSectionTitle string `json:"bnss_section_title,omitempty"`
	CrpcSectionNo    string `json:"crpc_section_no,omitempty"`
	CrpcSectionTitle string `json:"crpc_section_title,omitempty"`
	Remarks          string `json:"remarks,omitempty"`
	SourceURL        string `json:"source_url"`
	ContentHash      string `json:"content_hash"`
	Version          string `json:"version"`
}

// CanonicalSectionID builds an identifier like BNSS:CH01:S001.
func CanonicalSectionID(chapterNo, sectionNo int) string {
	return fmt.Sprintf("BNSS:CH%02d:S%03d", chapterNo, sectionNo)
}

// PageMeta identifies the cached page a dataset row was derived from.
type PageMeta struct {
	SourceURL   string
	ContentHash string
	Version     string
}
