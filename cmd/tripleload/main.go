// Command tripleload generates random triples, loads them into the
// store under a single MVCC write transaction, then reports the result
// count for one query from each of the eight SPO pattern classes. It
// exists to exercise the whole stack end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/ledgerwatch/rdfstore/mvcc"
	"github.com/ledgerwatch/rdfstore/rdfstorelog"
	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/term"
)

var (
	triples    = flag.Int("triples", 10000, "number of random triples to load")
	subjects   = flag.Int("subjects", 1000, "distinct subject count")
	predicates = flag.Int("predicates", 20, "distinct predicate count")
	objects    = flag.Int("objects", 500, "distinct object count")
	seed       = flag.Int64("seed", 1, "random seed")
)

var log = rdfstorelog.New("tripleload")

func main() {
	flag.Parse()

	cfg := storeconfig.Default()
	coord := mvcc.NewCoordinator(cfg)
	sched := mvcc.NewScheduler(coord, cfg.SchedulerTick)
	sched.Start(context.Background())
	defer sched.Stop()

	rng := rand.New(rand.NewSource(*seed))
	loaded, err := load(coord, rng)
	if err != nil {
		log.Error("load failed", "err", err)
		os.Exit(1)
	}
	log.Info("loaded", "triples", loaded)

	report(coord)
}

// load inserts *triples random triples inside one WRITE transaction.
func load(coord *mvcc.Coordinator, rng *rand.Rand) (int, error) {
	tx, err := coord.BeginWrite(context.Background())
	if err != nil {
		return 0, err
	}
	inserted := 0
	for i := 0; i < *triples; i++ {
		t := randomTriple(rng)
		ok, err := tx.Add(t)
		if err != nil {
			_ = tx.Abort()
			return 0, err
		}
		if ok {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func randomTriple(rng *rand.Rand) term.Triple {
	s := term.IRI(fmt.Sprintf("urn:tripleload:s%d", rng.Intn(*subjects)))
	p := term.IRI(fmt.Sprintf("urn:tripleload:p%d", rng.Intn(*predicates)))
	o := term.IRI(fmt.Sprintf("urn:tripleload:o%d", rng.Intn(*objects)))
	return term.New(s, p, o)
}

// report runs one query from each of the eight SPO pattern classes
// under a fresh READ transaction and prints the match count for each.
func report(coord *mvcc.Coordinator) {
	tx := coord.BeginRead()
	defer tx.End()

	size, _ := tx.Size()
	fmt.Printf("store size: %d\n", size)

	s0 := term.IRI("urn:tripleload:s0")
	p0 := term.IRI("urn:tripleload:p0")
	o0 := term.IRI("urn:tripleload:o0")

	classes := []struct {
		name  string
		match term.Match
	}{
		{"SPO", term.Match{Subject: s0, Predicate: p0, Object: o0}},
		{"SP?", term.Match{Subject: s0, Predicate: p0, Object: term.ANY}},
		{"S?O", term.Match{Subject: s0, Predicate: term.ANY, Object: o0}},
		{"S??", term.Match{Subject: s0, Predicate: term.ANY, Object: term.ANY}},
		{"?PO", term.Match{Subject: term.ANY, Predicate: p0, Object: o0}},
		{"?P?", term.Match{Subject: term.ANY, Predicate: p0, Object: term.ANY}},
		{"??O", term.Match{Subject: term.ANY, Predicate: term.ANY, Object: o0}},
		{"???", term.AnyMatch},
	}

	start := time.Now()
	for _, c := range classes {
		stream, err := tx.Stream(c.match)
		if err != nil {
			log.Error("stream failed", "class", c.name, "err", err)
			continue
		}
		n := 0
		for range stream {
			n++
		}
		fmt.Printf("%-4s count=%d\n", c.name, n)
	}
	log.Debug("report complete", "elapsed", time.Since(start))
}
