package yarbs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

const (
	// modBreak cuts a contig at a position in its original coordinates
	modBreak = "break"

	// modInvert reverse complements a whole contig
	modInvert = "invert"
)

// Modification is one edit recorded during curation
type Modification struct {
	// Type is "break" or "invert"
	Type string `json:"type"`

	// Query names the input contig the edit applies to
	Query string `json:"query,omitempty"`

	// ContigName is the alternate key inversion entries use when they
	// target a contig that stays out of every chromosome group
	ContigName string `json:"contigName,omitempty"`

	// Position of a break, in the contig's original coordinates
	Position int `json:"position,omitempty"`
}

// ChromosomeGroup is a curated set of contigs that belong together on
// one chromosome copy
type ChromosomeGroup struct {
	// Contigs in the group, by input contig name
	Contigs []string `json:"contigs"`

	// Order holds the rank of each contig in Contigs. Sorting Contigs
	// by these ranks gives the stitching order
	Order []int `json:"order,omitempty"`

	// CreatedOn is the reference sequence the group was curated against
	CreatedOn string `json:"createdOn,omitempty"`

	// Reference is the older name for CreatedOn, read for compatibility
	Reference string `json:"reference,omitempty"`
}

// Modifications mirrors the JSON the review tool writes
type Modifications struct {
	Modifications    []Modification             `json:"modifications"`
	ChromosomeGroups map[string]ChromosomeGroup `json:"chromosomeGroups"`
}

// readModifications reads and parses a modifications JSON file
func readModifications(path string) (*Modifications, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	mods := &Modifications{}
	if err := json.Unmarshal(contents, mods); err != nil {
		return nil, &MalformedInputError{Path: path, Reason: err.Error()}
	}
	return mods, nil
}

// breaksFor returns the break positions recorded for a contig, ascending
func (m *Modifications) breaksFor(query string) []int {
	var positions []int
	for _, mod := range m.Modifications {
		if mod.Type == modBreak && mod.Query == query {
			positions = append(positions, mod.Position)
		}
	}
	sort.Ints(positions)
	return positions
}

// invertsQuery reports whether an inversion was recorded for an input
// contig. Repeated inversion entries are applied once, flipping a
// sequence back and forth was never the intent of a curation session.
func (m *Modifications) invertsQuery(query string) bool {
	for _, mod := range m.Modifications {
		if mod.Type == modInvert && mod.Query == query {
			return true
		}
	}
	return false
}

// invertsContig reports whether an inversion was recorded against an
// output contig name, the key used for unincorporated sequences
func (m *Modifications) invertsContig(name string) bool {
	for _, mod := range m.Modifications {
		if mod.Type == modInvert && mod.ContigName == name {
			return true
		}
	}
	return false
}

// ChromosomeAssignment is one scaffold to build: a name, the contigs
// that make it up in stitching order, and the reference it came from
type ChromosomeAssignment struct {
	// Name of the scaffold, the chromosome group's name
	Name string

	// Contigs in stitching order
	Contigs []string

	// Reference the group was curated against, "" when unrecorded
	Reference string

	// IsSubchromosome is true for scaffolds built from curated groups,
	// which represent one copy of a chromosome rather than the whole
	IsSubchromosome bool
}

// chromosomeAssignments converts curated chromosome groups into build
// assignments, ordered by group name. Groups without contigs are
// skipped with a warning.
func chromosomeAssignments(mods *Modifications) (assignments []ChromosomeAssignment, warnings []string) {
	var names []string
	for name := range mods.ChromosomeGroups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		group := mods.ChromosomeGroups[name]
		if len(group.Contigs) == 0 {
			warnings = append(warnings, fmt.Sprintf("group %s has no contigs", name))
			continue
		}

		ref := group.CreatedOn
		if ref == "" {
			ref = group.Reference
		}

		assignments = append(assignments, ChromosomeAssignment{
			Name:            name,
			Contigs:         orderContigs(group.Contigs, group.Order),
			Reference:       ref,
			IsSubchromosome: true,
		})
	}
	return assignments, warnings
}

// orderContigs sorts contigs by their rank in the order array. A missing
// or mismatched order array leaves the given order untouched rather than
// failing, curation sessions predating the order field still scaffold.
func orderContigs(contigs []string, order []int) []string {
	if len(order) == 0 || len(order) != len(contigs) {
		return contigs
	}

	type pair struct {
		contig string
		rank   int
	}
	pairs := make([]pair, len(contigs))
	for i, contig := range contigs {
		pairs[i] = pair{contig: contig, rank: order[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].rank < pairs[j].rank
	})

	ordered := make([]string, len(pairs))
	for i, p := range pairs {
		ordered[i] = p.contig
	}
	return ordered
}
