package yarbs

import (
	"sort"
	"sync"
)

// span is a half-open [start, end) coordinate stretch
type span struct {
	start int
	end   int
}

// sweepEvent is one endpoint of a span, delta +1 at starts, -1 at ends
type sweepEvent struct {
	pos   int
	delta int
}

// uniqueSpans runs a plane sweep over one query's alignment spans and
// returns the maximal stretches covered by exactly one span. Events are
// sorted by position alone and the sort is stable, so an end and a start
// at the same position are processed in input order. That is the
// canonical tie policy: callers must not rely on ends sorting ahead of
// starts. Zero width stretches are dropped.
func uniqueSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}

	events := make([]sweepEvent, 0, 2*len(spans))
	for _, s := range spans {
		events = append(events, sweepEvent{pos: s.start, delta: 1})
		events = append(events, sweepEvent{pos: s.end, delta: -1})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].pos < events[j].pos
	})

	var uniques []span
	depth := 0
	last := 0
	for _, e := range events {
		if depth == 1 && last < e.pos {
			uniques = append(uniques, span{start: last, end: e.pos})
		}
		depth += e.delta
		last = e.pos
	}
	return uniques
}

// overlapTotal is the number of bases of s covered by the unique spans
func overlapTotal(s span, uniques []span) int {
	total := 0
	for _, u := range uniques {
		lo := s.start
		if u.start > lo {
			lo = u.start
		}
		hi := s.end
		if u.end < hi {
			hi = u.end
		}
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}

// tagAlignment buckets an alignment by its unique content. Alignments
// with uniqueLength or more unique bases anchor scaffolding decisions.
// Shorter ones that are still mostly unique within their own reference
// span are kept visible as unique_short, the rest are repetitive.
func tagAlignment(uniqueContent, refSpan, uniqueLength int) (tag string, passes bool) {
	if uniqueContent >= uniqueLength {
		return TagUnique, true
	}

	if refSpan < 1 {
		refSpan = 1
	}
	if float64(uniqueContent)/float64(refSpan) > 0.5 {
		return TagUniqueShort, false
	}
	return TagRepetitive, false
}

// classify computes the unique content of every alignment against the
// other alignments of the same query and tags it. Queries are independent
// of one another, so each is classified as one job on a fixed pool of
// workers. Records of a query keep their input order in the result but
// the order of the queries themselves depends on scheduling.
func classify(records []AlignmentRecord, uniqueLength, workers int) []AlignmentRecord {
	byQuery := make(map[string][]AlignmentRecord)
	var queries []string
	for _, rec := range records {
		if _, seen := byQuery[rec.Query]; !seen {
			queries = append(queries, rec.Query)
		}
		byQuery[rec.Query] = append(byQuery[rec.Query], rec)
	}

	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	results := make(chan []AlignmentRecord)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for query := range jobs {
				results <- classifyQuery(byQuery[query], uniqueLength)
			}
		}()
	}

	classified := make([]AlignmentRecord, 0, len(records))
	done := make(chan bool)
	go func() {
		for recs := range results {
			classified = append(classified, recs...)
		}
		done <- true
	}()

	for _, query := range queries {
		jobs <- query
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	return classified
}

// classifyQuery tags the alignments of a single query. Uniqueness is
// measured on the query axis (where two alignments of the same contig
// overlap) while the unique_short ratio is taken against the reference
// span of the alignment.
func classifyQuery(recs []AlignmentRecord, uniqueLength int) []AlignmentRecord {
	spans := make([]span, len(recs))
	for i, rec := range recs {
		spans[i] = span{start: rec.QueryStart, end: rec.QueryEnd}
	}
	uniques := uniqueSpans(spans)

	tagged := make([]AlignmentRecord, len(recs))
	for i, rec := range recs {
		rec.UniqueContent = overlapTotal(spans[i], uniques)
		rec.Tag, rec.PassesFilter = tagAlignment(rec.UniqueContent, rec.RefEnd-rec.RefStart, uniqueLength)
		tagged[i] = rec
	}
	return tagged
}
