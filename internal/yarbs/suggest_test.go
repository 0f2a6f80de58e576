package yarbs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/laramiemckenna/YARBS/config"
)

func Test_placeContigs(t *testing.T) {
	type args struct {
		coords []Coord
	}
	tests := []struct {
		name string
		args args
		want map[string][]contigPlacement
	}{
		{
			"contigs sort by mean midpoint",
			args{[]Coord{
				{Ref: "chr1", Query: "tigB", Tag: TagUnique, RefStart: 5000, RefEnd: 7000, QueryStart: 0, QueryEnd: 2000, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigA", Tag: TagUnique, RefStart: 0, RefEnd: 2000, QueryStart: 0, QueryEnd: 2000, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigA", Tag: TagUnique, RefStart: 2000, RefEnd: 4000, QueryStart: 2000, QueryEnd: 4000, AlignedOrientation: "+"},
			}},
			map[string][]contigPlacement{
				"chr1": {
					{Query: "tigA", Position: 2000, Orientation: "+", Alignments: 2},
					{Query: "tigB", Position: 6000, Orientation: "+", Alignments: 1},
				},
			},
		},
		{
			"orientation vote weighted by aligned bases",
			args{[]Coord{
				{Ref: "chr1", Query: "tigC", Tag: TagUnique, RefStart: 0, RefEnd: 1000, QueryStart: 0, QueryEnd: 1000, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigC", Tag: TagUnique, RefStart: 1000, RefEnd: 4000, QueryStart: 1000, QueryEnd: 4000, AlignedOrientation: "-"},
			}},
			map[string][]contigPlacement{
				"chr1": {
					{Query: "tigC", Position: 1500, Orientation: "-", Alignments: 2},
				},
			},
		},
		{
			"tie vote goes forward",
			args{[]Coord{
				{Ref: "chr1", Query: "tigD", Tag: TagUnique, RefStart: 0, RefEnd: 500, QueryStart: 0, QueryEnd: 500, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigD", Tag: TagUnique, RefStart: 500, RefEnd: 1000, QueryStart: 0, QueryEnd: 500, AlignedOrientation: "-"},
			}},
			map[string][]contigPlacement{
				"chr1": {
					{Query: "tigD", Position: 500, Orientation: "+", Alignments: 2},
				},
			},
		},
		{
			"rows without the orientation column vote by coordinates",
			args{[]Coord{
				{Ref: "chr1", Query: "tigE", Tag: TagUnique, RefStart: 0, RefEnd: 1000, QueryStart: 900, QueryEnd: 100},
			}},
			map[string][]contigPlacement{
				"chr1": {
					{Query: "tigE", Position: 500, Orientation: "-", Alignments: 1},
				},
			},
		},
		{
			"non-unique rows are ignored",
			args{[]Coord{
				{Ref: "chr1", Query: "tigF", Tag: TagRepetitive, RefStart: 0, RefEnd: 1000, QueryStart: 0, QueryEnd: 1000, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigG", Tag: TagUniqueShort, RefStart: 0, RefEnd: 1000, QueryStart: 0, QueryEnd: 1000, AlignedOrientation: "+"},
			}},
			map[string][]contigPlacement{},
		},
		{
			"equal positions keep first appearance order",
			args{[]Coord{
				{Ref: "chr1", Query: "tigH", Tag: TagUnique, RefStart: 0, RefEnd: 1000, QueryStart: 0, QueryEnd: 1000, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigI", Tag: TagUnique, RefStart: 0, RefEnd: 1000, QueryStart: 0, QueryEnd: 1000, AlignedOrientation: "+"},
			}},
			map[string][]contigPlacement{
				"chr1": {
					{Query: "tigH", Position: 500, Orientation: "+", Alignments: 1},
					{Query: "tigI", Position: 500, Orientation: "+", Alignments: 1},
				},
			},
		},
		{
			"references stay separate",
			args{[]Coord{
				{Ref: "chr2", Query: "tigJ", Tag: TagUnique, RefStart: 0, RefEnd: 2000, QueryStart: 0, QueryEnd: 2000, AlignedOrientation: "+"},
				{Ref: "chr1", Query: "tigJ", Tag: TagUnique, RefStart: 4000, RefEnd: 6000, QueryStart: 0, QueryEnd: 2000, AlignedOrientation: "+"},
			}},
			map[string][]contigPlacement{
				"chr1": {{Query: "tigJ", Position: 5000, Orientation: "+", Alignments: 1}},
				"chr2": {{Query: "tigJ", Position: 1000, Orientation: "+", Alignments: 1}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := placeContigs(tt.args.coords); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("placeContigs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_skeletonModifications(t *testing.T) {
	placements := map[string][]contigPlacement{
		"chr1": {
			{Query: "tigA", Position: 1000, Orientation: "+", Alignments: 2},
			{Query: "tigB", Position: 5000, Orientation: "-", Alignments: 1},
		},
		"chr2": {
			{Query: "tigC", Position: 200, Orientation: "+", Alignments: 1},
		},
	}

	got := skeletonModifications([]string{"chr1", "chr2"}, placements)

	want := &Modifications{
		Modifications: []Modification{
			{Type: modInvert, Query: "tigB"},
		},
		ChromosomeGroups: map[string]ChromosomeGroup{
			"chr1": {Contigs: []string{"tigA", "tigB"}, Order: []int{0, 1}, CreatedOn: "chr1"},
			"chr2": {Contigs: []string{"tigC"}, Order: []int{0}, CreatedOn: "chr2"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("skeletonModifications() = %+v, want %+v", got, want)
	}
}

func TestSuggest(t *testing.T) {
	dir := t.TempDir()

	coordsFile := filepath.Join(dir, "session.coords")
	contents := coordsHeader + "\n" +
		"!tigA!unique\n" +
		"0,2000,0,2000,chr1,+,+,false,99.10\n" +
		"!tigB!unique\n" +
		"5000,7000,0,1900,chr1,-,-,true,98.00\n"
	if err := os.WriteFile(coordsFile, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "session")
	if err := Suggest(NewFlags("", "", "", coordsFile, "", out, "", false), config.New()); err != nil {
		t.Fatal(err)
	}

	mods, err := readModifications(out + "_modifications.json")
	if err != nil {
		t.Fatal(err)
	}

	want := &Modifications{
		Modifications: []Modification{
			{Type: modInvert, Query: "tigB"},
		},
		ChromosomeGroups: map[string]ChromosomeGroup{
			"chr1": {Contigs: []string{"tigA", "tigB"}, Order: []int{0, 1}, CreatedOn: "chr1"},
		},
	}
	if !reflect.DeepEqual(mods, want) {
		t.Errorf("Suggest() modifications = %+v, want %+v", mods, want)
	}
}

func TestSuggest_noUniqueAlignments(t *testing.T) {
	dir := t.TempDir()

	coordsFile := filepath.Join(dir, "session.coords")
	contents := coordsHeader + "\n" +
		"!tigA!repetitive\n" +
		"0,2000,0,2000,chr1,+,+,false,99.10\n"
	if err := os.WriteFile(coordsFile, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "session")
	if err := Suggest(NewFlags("", "", "", coordsFile, "", out, "", false), config.New()); err != nil {
		t.Fatal(err)
	}

	// nothing to suggest, no skeleton written
	if _, err := os.Stat(out + "_modifications.json"); !os.IsNotExist(err) {
		t.Errorf("Suggest() wrote a skeleton with no unique alignments")
	}
}
