// Package validate runs integrity checks over the derived datasets and the
// fetch cache.
package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxDetails caps the per-check detail lines in the report.
const maxDetails = 10

// Checker implements the dataset validation run.
type Checker struct {
	datasets ports.DatasetStore
	manifest ports.ManifestStore
	cache    ports.CacheStore
	settings domain.Settings
}

// NewChecker creates a validation checker.
func NewChecker(
	datasets ports.DatasetStore,
	manifest ports.ManifestStore,
	cache ports.CacheStore,
	settings domain.Settings,
) *Checker {
	return &Checker{
		datasets: datasets,
		manifest: manifest,
		cache:    cache,
		settings: settings,
	}
}

// Run executes every check and returns the aggregated report. A failing
// check never aborts the run; only an invalid as-of label does.
func (c *Checker) Run(ctx context.Context, asOf string) (*domain.ValidationReport, error) {
	if err := domain.ValidateAsOf(asOf); err != nil {
		return nil, zerr.With(err, "as_of", asOf)
	}

	report := &domain.ValidationReport{}

	sectionsPath := filepath.Join(c.settings.DatasetsDir(), domain.SectionsFileName)
	crosswalkPath := filepath.Join(c.settings.DatasetsDir(), domain.CrosswalkFileName)

	sectionsOK := checkFileExists(report, "sections_exists", sectionsPath)
	crosswalkOK := checkFileExists(report, "crosswalk_exists", crosswalkPath)
	if !sectionsOK || !crosswalkOK {
		// Without the files there is nothing further to check.
		return report, nil
	}

	sections, err := c.datasets.ReadSections(ctx)
	if err != nil {
		report.Add(domain.CheckResult{
			Name:    "sections_parse",
			Message: fmt.Sprintf("could not read sections dataset: %v", err),
		})
		return report, nil
	}
	crosswalk, err := c.datasets.ReadCrosswalk(ctx)
	if err != nil {
		report.Add(domain.CheckResult{
			Name:    "crosswalk_parse",
			Message: fmt.Sprintf("could not read crosswalk dataset: %v", err),
		})
		return report, nil
	}

	checkSectionsSchema(report, sections)
	checkSectionsNoDuplicates(report, sections)
	checkSectionsGaps(report, sections)
	checkCrosswalkSchema(report, crosswalk)
	checkCrosswalkNoDuplicates(report, crosswalk)
	checkCrosswalkRefs(report, sections, crosswalk)
	checkVersionConsistency(report, asOf, sections, crosswalk)
	c.checkManifestIntegrity(ctx, report)

	return report, nil
}

// FailedErr converts a failing report into the sentinel the CLI maps to a
// non-zero exit code.
func FailedErr(report *domain.ValidationReport) error {
	if report == nil || report.Passed() {
		return nil
	}
	passed, failed := report.Counts()
	return zerr.With(zerr.With(domain.ErrValidationFailed, "passed", passed), "failed", failed)
}

func checkFileExists(report *domain.ValidationReport, name, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		report.Add(domain.CheckResult{
			Name:    name,
			Message: fmt.Sprintf("%s does not exist", path),
		})
		return false
	}
	if info.Size() == 0 {
		report.Add(domain.CheckResult{
			Name:    name,
			Message: fmt.Sprintf("%s is empty (0 bytes)", path),
		})
		return false
	}
	report.Add(domain.CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("%s exists (%d bytes)", path, info.Size()),
	})
	return true
}

func checkSectionsSchema(report *domain.ValidationReport, rows []domain.SectionRow) {
	var errors []string
	for i, row := range rows {
		if row.Law != "BNSS" {
			errors = append(errors, fmt.Sprintf("row %d: law=%q, expected \"BNSS\"", i+1, row.Law))
		}
		if row.CanonicalID == "" {
			errors = append(errors, fmt.Sprintf("row %d: canonical_id is empty", i+1))
		}
		if row.ChapterNo < 1 {
			errors = append(errors, fmt.Sprintf("row %d: chapter_no %d out of range", i+1, row.ChapterNo))
		}
		if row.SectionNo < 1 {
			errors = append(errors, fmt.Sprintf("row %d: section_no %d out of range", i+1, row.SectionNo))
		}
		if row.SectionTitle == "" {
			errors = append(errors, fmt.Sprintf("row %d: section_title is empty", i+1))
		}
	}

	if len(errors) > 0 {
		report.Add(domain.CheckResult{
			Name:    "sections_schema",
			Message: fmt.Sprintf("%d schema violation(s)", len(errors)),
			Details: truncate(errors),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "sections_schema",
		Passed:  true,
		Message: fmt.Sprintf("all %d rows conform to schema", len(rows)),
	})
}

func checkSectionsNoDuplicates(report *domain.ValidationReport, rows []domain.SectionRow) {
	seen := make(map[string]int, len(rows))
	var duplicates []string
	for i, row := range rows {
		if first, ok := seen[row.CanonicalID]; ok {
			duplicates = append(duplicates,
				fmt.Sprintf("%s appears at rows %d and %d", row.CanonicalID, first, i+1))
			continue
		}
		seen[row.CanonicalID] = i + 1
	}

	if len(duplicates) > 0 {
		report.Add(domain.CheckResult{
			Name:    "sections_no_duplicates",
			Message: fmt.Sprintf("%d duplicate section(s) found", len(duplicates)),
			Details: truncate(duplicates),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "sections_no_duplicates",
		Passed:  true,
		Message: fmt.Sprintf("%d unique sections, no duplicates", len(seen)),
	})
}

func checkSectionsGaps(report *domain.ValidationReport, rows []domain.SectionRow) {
	nums := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		nums[row.SectionNo] = struct{}{}
	}
	if len(nums) == 0 {
		report.Add(domain.CheckResult{
			Name:    "sections_gaps",
			Message: "no sections found",
		})
		return
	}

	sorted := make([]int, 0, len(nums))
	for n := range nums {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	var missing []int
	for n := sorted[0]; n <= sorted[len(sorted)-1]; n++ {
		if _, ok := nums[n]; !ok {
			missing = append(missing, n)
		}
	}

	if len(missing) > 0 {
		report.Add(domain.CheckResult{
			Name:    "sections_gaps",
			Message: fmt.Sprintf("%d gap(s) in section numbering", len(missing)),
			Details: []string{fmt.Sprintf("missing section(s): %v", firstInts(missing, 20))},
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "sections_gaps",
		Passed:  true,
		Message: fmt.Sprintf("sections %d-%d contiguous, no gaps", sorted[0], sorted[len(sorted)-1]),
	})
}

func checkCrosswalkSchema(report *domain.ValidationReport, rows []domain.CrosswalkRow) {
	var errors []string
	for i, row := range rows {
		if row.BnssSectionNo == "" {
			errors = append(errors, fmt.Sprintf("row %d: bnss_section_no is empty", i+1))
		}
		if row.SourceURL == "" {
			errors = append(errors, fmt.Sprintf("row %d: source_url is empty", i+1))
		}
		if row.Version == "" {
			errors = append(errors, fmt.Sprintf("row %d: version is empty", i+1))
		}
	}

	if len(errors) > 0 {
		report.Add(domain.CheckResult{
			Name:    "crosswalk_schema",
			Message: fmt.Sprintf("%d schema violation(s)", len(errors)),
			Details: truncate(errors),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "crosswalk_schema",
		Passed:  true,
		Message: fmt.Sprintf("all %d rows conform to schema", len(rows)),
	})
}

func checkCrosswalkNoDuplicates(report *domain.ValidationReport, rows []domain.CrosswalkRow) {
	seen := make(map[string]int, len(rows))
	var duplicates []string
	for i, row := range rows {
		if first, ok := seen[row.BnssSectionNo]; ok {
			duplicates = append(duplicates,
				fmt.Sprintf("BNSS section %s at rows %d and %d", row.BnssSectionNo, first, i+1))
			continue
		}
		seen[row.BnssSectionNo] = i + 1
	}

	if len(duplicates) > 0 {
		report.Add(domain.CheckResult{
			Name:    "crosswalk_no_duplicates",
			Message: fmt.Sprintf("%d duplicate BNSS section(s)", len(duplicates)),
			Details: truncate(duplicates),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "crosswalk_no_duplicates",
		Passed:  true,
		Message: fmt.Sprintf("%d unique crosswalk entries, no duplicates", len(seen)),
	})
}

// checkCrosswalkRefs verifies that every crosswalk entry resolves to a section
// in the index. Compound numbers ("4 (2)", "23.1", "4A") resolve through their
// leading integer; entries without one are skipped, the schema check already
// flags those.
func checkCrosswalkRefs(report *domain.ValidationReport, sections []domain.SectionRow, crosswalk []domain.CrosswalkRow) {
	known := make(map[int]struct{}, len(sections))
	for _, row := range sections {
		known[row.SectionNo] = struct{}{}
	}

	var unresolved []string
	resolved := 0
	for i, row := range crosswalk {
		no, ok := leadingInt(row.BnssSectionNo)
		if !ok {
			continue
		}
		if _, exists := known[no]; !exists {
			unresolved = append(unresolved,
				fmt.Sprintf("row %d: BNSS section %s not in section index", i+1, row.BnssSectionNo))
			continue
		}
		resolved++
	}

	if len(unresolved) > 0 {
		report.Add(domain.CheckResult{
			Name:    "crosswalk_refs",
			Message: fmt.Sprintf("%d crosswalk entr(ies) missing from the section index", len(unresolved)),
			Details: truncate(unresolved),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "crosswalk_refs",
		Passed:  true,
		Message: fmt.Sprintf("%d crosswalk entr(ies) resolve against the section index", resolved),
	})
}

func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func checkVersionConsistency(report *domain.ValidationReport, asOf string, sections []domain.SectionRow, crosswalk []domain.CrosswalkRow) {
	want := domain.VersionLabel(asOf)
	var wrong []string
	for i, row := range sections {
		if row.Version != want {
			wrong = append(wrong, fmt.Sprintf("sections row %d: version %q", i+1, row.Version))
		}
	}
	for i, row := range crosswalk {
		if row.Version != want {
			wrong = append(wrong, fmt.Sprintf("crosswalk row %d: version %q", i+1, row.Version))
		}
	}

	if len(wrong) > 0 {
		report.Add(domain.CheckResult{
			Name:    "version_consistency",
			Message: fmt.Sprintf("%d row(s) do not carry version %q", len(wrong), want),
			Details: truncate(wrong),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "version_consistency",
		Passed:  true,
		Message: fmt.Sprintf("all rows carry version %q", want),
	})
}

// checkManifestIntegrity verifies that every non-failed manifest record still
// points at a cached body whose hash matches the recorded one.
func (c *Checker) checkManifestIntegrity(ctx context.Context, report *domain.ValidationReport) {
	manifest, err := c.manifest.Load(ctx)
	if err != nil {
		report.Add(domain.CheckResult{
			Name:    "manifest_integrity",
			Message: fmt.Sprintf("could not load manifest: %v", err),
		})
		return
	}

	var problems []string
	checked := 0
	for url, rec := range manifest {
		if rec.Status == domain.RecordFailed || rec.LocalPath == "" {
			continue
		}
		checked++

		if !c.cache.Exists(rec.LocalPath) {
			problems = append(problems, fmt.Sprintf("%s: cached body missing at %s", url, rec.LocalPath))
			continue
		}
		body, err := c.cache.Read(rec.LocalPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", url, err))
			continue
		}
		if got := domain.ContentHash(body); got != rec.ContentHash {
			problems = append(problems, fmt.Sprintf("%s: content hash mismatch", url))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		report.Add(domain.CheckResult{
			Name:    "manifest_integrity",
			Message: fmt.Sprintf("%d manifest record(s) out of sync with cache", len(problems)),
			Details: truncate(problems),
		})
		return
	}
	report.Add(domain.CheckResult{
		Name:    "manifest_integrity",
		Passed:  true,
		Message: fmt.Sprintf("%d cached record(s) verified", checked),
	})
}

func truncate(details []string) []string {
	if len(details) > maxDetails {
		return details[:maxDetails]
	}
	return details
}

func firstInts(nums []int, n int) []int {
	if len(nums) > n {
		return nums[:n]
	}
	return nums
}
