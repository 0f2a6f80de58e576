package yarbs

import (
	"reflect"
	"sort"
	"testing"
)

func Test_uniqueSpans(t *testing.T) {
	type args struct {
		spans []span
	}
	tests := []struct {
		name string
		args args
		want []span
	}{
		{
			"single span is all unique",
			args{[]span{{0, 100}}},
			[]span{{0, 100}},
		},
		{
			"disjoint spans stay whole",
			args{[]span{{0, 10}, {20, 30}}},
			[]span{{0, 10}, {20, 30}},
		},
		{
			"overlap is cut out of both",
			args{[]span{{0, 10}, {5, 15}}},
			[]span{{0, 5}, {10, 15}},
		},
		{
			"nested span erases the middle",
			args{[]span{{0, 100}, {40, 60}}},
			[]span{{0, 40}, {60, 100}},
		},
		{
			"duplicate spans share everything",
			args{[]span{{5, 10}, {5, 10}}},
			nil,
		},
		{
			"adjacent spans touch without overlapping",
			args{[]span{{0, 10}, {10, 20}}},
			[]span{{0, 10}, {10, 20}},
		},
		{
			"zero width span is dropped",
			args{[]span{{7, 7}}},
			nil,
		},
		{
			"no spans",
			args{nil},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uniqueSpans(tt.args.spans); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("uniqueSpans() = %v, want %v", got, tt.want)
			}
		})
	}
}

// the sweep result cannot depend on the input order of the spans
func Test_uniqueSpans_orderIndependent(t *testing.T) {
	forward := uniqueSpans([]span{{0, 10}, {10, 20}, {5, 15}})
	backward := uniqueSpans([]span{{5, 15}, {10, 20}, {0, 10}})

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("uniqueSpans() = %v from reversed input, want %v", backward, forward)
	}
}

func Test_overlapTotal(t *testing.T) {
	type args struct {
		s       span
		uniques []span
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{
			"span inside one unique stretch",
			args{span{5, 15}, []span{{0, 20}}},
			10,
		},
		{
			"span across two unique stretches",
			args{span{0, 100}, []span{{0, 40}, {60, 100}}},
			80,
		},
		{
			"no overlap",
			args{span{30, 40}, []span{{0, 10}, {50, 60}}},
			0,
		},
		{
			"partial overlap at the edge",
			args{span{8, 12}, []span{{0, 10}}},
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapTotal(tt.args.s, tt.args.uniques); got != tt.want {
				t.Errorf("overlapTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_tagAlignment(t *testing.T) {
	type args struct {
		uniqueContent int
		refSpan       int
		uniqueLength  int
	}
	tests := []struct {
		name       string
		args       args
		wantTag    string
		wantPasses bool
	}{
		{
			"unique at the threshold",
			args{10000, 15000, 10000},
			TagUnique,
			true,
		},
		{
			"unique above the threshold",
			args{12000, 15000, 10000},
			TagUnique,
			true,
		},
		{
			"short but mostly unique",
			args{600, 1000, 10000},
			TagUniqueShort,
			false,
		},
		{
			"exactly half unique is repetitive",
			args{500, 1000, 10000},
			TagRepetitive,
			false,
		},
		{
			"mostly repetitive",
			args{100, 5000, 10000},
			TagRepetitive,
			false,
		},
		{
			"degenerate ref span gets a floor of one",
			args{1, 0, 10000},
			TagUniqueShort,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTag, gotPasses := tagAlignment(tt.args.uniqueContent, tt.args.refSpan, tt.args.uniqueLength)
			if gotTag != tt.wantTag {
				t.Errorf("tagAlignment() tag = %v, want %v", gotTag, tt.wantTag)
			}
			if gotPasses != tt.wantPasses {
				t.Errorf("tagAlignment() passes = %v, want %v", gotPasses, tt.wantPasses)
			}
		})
	}
}

func Test_classifyQuery(t *testing.T) {
	recs := []AlignmentRecord{
		{Query: "tig1", QueryStart: 0, QueryEnd: 30000, RefStart: 100000, RefEnd: 130000},
		{Query: "tig1", QueryStart: 20000, QueryEnd: 32000, RefStart: 500000, RefEnd: 512000},
		{Query: "tig1", QueryStart: 40000, QueryEnd: 40500, RefStart: 700000, RefEnd: 700500},
	}

	got := classifyQuery(recs, 10000)

	// [0,30000) loses [20000,30000) to the second alignment
	if got[0].UniqueContent != 20000 || got[0].Tag != TagUnique {
		t.Errorf("classifyQuery() first = %d bases tagged %s, want 20000 tagged %s", got[0].UniqueContent, got[0].Tag, TagUnique)
	}

	// [20000,32000) keeps only [30000,32000)
	if got[1].UniqueContent != 2000 || got[1].Tag != TagRepetitive {
		t.Errorf("classifyQuery() second = %d bases tagged %s, want 2000 tagged %s", got[1].UniqueContent, got[1].Tag, TagRepetitive)
	}

	// [40000,40500) overlaps nothing but is too short for unique
	if got[2].UniqueContent != 500 || got[2].Tag != TagUniqueShort {
		t.Errorf("classifyQuery() third = %d bases tagged %s, want 500 tagged %s", got[2].UniqueContent, got[2].Tag, TagUniqueShort)
	}
}

// a lone alignment is its own unique content
func Test_classifyQuery_single(t *testing.T) {
	recs := []AlignmentRecord{
		{Query: "tig1", QueryStart: 1000, QueryEnd: 26000, RefStart: 0, RefEnd: 25000},
	}

	got := classifyQuery(recs, 10000)

	if got[0].UniqueContent != 25000 {
		t.Errorf("classifyQuery() unique content = %d, want %d", got[0].UniqueContent, 25000)
	}
	if !got[0].PassesFilter {
		t.Error("classifyQuery() single long alignment should pass the filter")
	}
}

// unique content never exceeds the alignment's own span and never grows
// when more alignments are added
func Test_classifyQuery_bounds(t *testing.T) {
	base := []AlignmentRecord{
		{Query: "tig1", QueryStart: 0, QueryEnd: 15000, RefStart: 0, RefEnd: 15000},
		{Query: "tig1", QueryStart: 12000, QueryEnd: 30000, RefStart: 40000, RefEnd: 58000},
	}
	more := append([]AlignmentRecord{}, base...)
	more = append(more, AlignmentRecord{Query: "tig1", QueryStart: 5000, QueryEnd: 14000, RefStart: 90000, RefEnd: 99000})

	before := classifyQuery(base, 10000)
	after := classifyQuery(more, 10000)

	for i, rec := range after {
		if rec.UniqueContent > rec.QueryEnd-rec.QueryStart {
			t.Errorf("classifyQuery() unique content %d exceeds span %d", rec.UniqueContent, rec.QueryEnd-rec.QueryStart)
		}
		if i < len(before) && rec.UniqueContent > before[i].UniqueContent {
			t.Errorf("classifyQuery() unique content grew from %d to %d after adding an alignment", before[i].UniqueContent, rec.UniqueContent)
		}
	}
}

// raising the unique length can only demote a tag, never promote one
func Test_classifyQuery_thresholdMonotonic(t *testing.T) {
	recs := []AlignmentRecord{
		{Query: "tig1", QueryStart: 0, QueryEnd: 12000, RefStart: 0, RefEnd: 12000},
		{Query: "tig1", QueryStart: 11000, QueryEnd: 11800, RefStart: 30000, RefEnd: 30800},
	}

	rank := map[string]int{TagRepetitive: 0, TagUniqueShort: 1, TagUnique: 2}

	prev := classifyQuery(recs, 1000)
	for _, threshold := range []int{5000, 11000, 20000} {
		next := classifyQuery(recs, threshold)
		for i := range next {
			if rank[next[i].Tag] > rank[prev[i].Tag] {
				t.Errorf("classifyQuery() tag = %s at threshold %d, was %s at a lower one", next[i].Tag, threshold, prev[i].Tag)
			}
		}
		prev = next
	}
}

func Test_classify(t *testing.T) {
	records := []AlignmentRecord{
		{Query: "tig1", QueryStart: 0, QueryEnd: 30000, RefStart: 0, RefEnd: 30000},
		{Query: "tig2", QueryStart: 0, QueryEnd: 800, RefStart: 50000, RefEnd: 50800},
		{Query: "tig1", QueryStart: 20000, QueryEnd: 32000, RefStart: 60000, RefEnd: 72000},
		{Query: "tig3", QueryStart: 100, QueryEnd: 400, RefStart: 80000, RefEnd: 80300},
		{Query: "tig3", QueryStart: 100, QueryEnd: 400, RefStart: 90000, RefEnd: 90300},
	}

	got := classify(records, 10000, 4)

	if len(got) != len(records) {
		t.Errorf("classify() returned %d records, want %d", len(got), len(records))
		return
	}

	// query order depends on worker scheduling, sort before comparing
	sort.Slice(got, func(i, j int) bool {
		if got[i].Query != got[j].Query {
			return got[i].Query < got[j].Query
		}
		return got[i].RefStart < got[j].RefStart
	})

	wantTags := []string{TagUnique, TagRepetitive, TagUniqueShort, TagRepetitive, TagRepetitive}
	for i, want := range wantTags {
		if got[i].Tag != want {
			t.Errorf("classify() record %d (%s at %d) tagged %s, want %s", i, got[i].Query, got[i].RefStart, got[i].Tag, want)
		}
	}
}

// per query record order survives the pool
func Test_classify_recordOrder(t *testing.T) {
	records := []AlignmentRecord{
		{Query: "tig1", QueryStart: 5000, QueryEnd: 6000, RefStart: 5000, RefEnd: 6000},
		{Query: "tig1", QueryStart: 0, QueryEnd: 1000, RefStart: 0, RefEnd: 1000},
		{Query: "tig1", QueryStart: 9000, QueryEnd: 9900, RefStart: 9000, RefEnd: 9900},
	}

	got := classify(records, 10000, 2)

	wantStarts := []int{5000, 0, 9000}
	for i, want := range wantStarts {
		if got[i].QueryStart != want {
			t.Errorf("classify() record %d starts at %d, want %d", i, got[i].QueryStart, want)
		}
	}
}
