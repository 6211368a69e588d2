// Command otsplot signs many messages with fresh one-time keys and renders
// the rejection-sampling attempt distribution and timings as HTML charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ringOTS-Signature/config"
	"ringOTS-Signature/metrics"
	"ringOTS-Signature/prof"
	"ringOTS-Signature/random"
	"ringOTS-Signature/signverify"
)

type run struct {
	attempts int
	sign     time.Duration
}

func main() {
	preset := flag.String("preset", "tss-256", "parameter preset")
	paramsPath := flag.String("params", "", "JSON or YAML parameter file (overrides -preset)")
	runs := flag.Int("runs", 200, "number of key pairs to generate and sign with")
	seed := flag.String("seed", "", "deterministic seed for the whole sweep")
	out := flag.String("out", "otsplot.html", "output HTML file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	if *runs <= 0 {
		log.Fatalf("-runs must be positive")
	}

	var (
		ps  config.ParameterSet
		err error
	)
	if *paramsPath != "" {
		ps, err = config.LoadParams(*paramsPath)
	} else {
		ps, err = config.Lookup(*preset)
	}
	if err != nil {
		log.Fatalf("parameters: %v", err)
	}
	rng := random.System()
	if *seed != "" {
		if rng, err = random.NewSeeded([]byte(*seed)); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}
	setup, err := ps.NewSetup(rng)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("logger: %v", err)
		}
	}
	reg := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		log.Fatalf("metrics: %v", err)
	}
	e, err := signverify.New(setup, signverify.WithRandom(rng), signverify.WithLogger(logger), signverify.WithMetrics(m))
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	results := sweep(e, *runs)
	page := components.NewPage().SetPageTitle(fmt.Sprintf("One-time signatures: %s", ps.Name))
	page.AddCharts(
		attemptsChart(ps.Name, results),
		latencyChart(results),
		timingChart(prof.Summarize(prof.SnapshotAndReset())),
	)
	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("mkdir: %v", err)
		}
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render: %v", err)
	}
	printMetrics(reg)
	fmt.Printf("wrote %s (%d runs, %s)\n", *out, len(results), setup.Ring)
}

func sweep(e *signverify.Engine, runs int) []run {
	out := make([]run, 0, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		kp, err := e.GenerateKey()
		if err != nil {
			log.Fatalf("run %d: keygen: %v", i, err)
		}
		prof.Track(start, "keygen")

		msg := []byte("otsplot message " + strconv.Itoa(i))
		start = time.Now()
		res, err := e.SignDetailed(context.Background(), kp.Private, msg)
		if err != nil {
			log.Fatalf("run %d: sign: %v", i, err)
		}
		elapsed := time.Since(start)
		prof.Track(start, "sign")

		start = time.Now()
		if err := e.Verify(kp.Public, msg, res.Signature); err != nil {
			log.Fatalf("run %d: verify: %v", i, err)
		}
		prof.Track(start, "verify")
		out = append(out, run{attempts: res.Attempts, sign: elapsed})
	}
	return out
}

func attemptsChart(name string, results []run) *charts.Bar {
	counts := map[int]int{}
	for _, r := range results {
		counts[r.attempts]++
	}
	xs := make([]int, 0, len(counts))
	for k := range counts {
		xs = append(xs, k)
	}
	sort.Ints(xs)
	labels := make([]string, len(xs))
	data := make([]opts.BarData, len(xs))
	for i, k := range xs {
		labels[i] = strconv.Itoa(k)
		data[i] = opts.BarData{Value: counts[k]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Attempts per signature", Subtitle: name}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "attempts"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "signatures"}),
	)
	bar.SetXAxis(labels).AddSeries("signatures", data)
	return bar
}

func latencyChart(results []run) *charts.Line {
	labels := make([]string, len(results))
	data := make([]opts.LineData, len(results))
	for i, r := range results {
		labels[i] = strconv.Itoa(i + 1)
		data[i] = opts.LineData{Value: float64(r.sign.Microseconds()) / 1000}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Signing latency"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "run"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(labels).AddSeries("sign", data)
	return line
}

func timingChart(sum []prof.Summary) *charts.Bar {
	labels := make([]string, len(sum))
	mean := make([]opts.BarData, len(sum))
	worst := make([]opts.BarData, len(sum))
	for i, s := range sum {
		labels[i] = s.Label
		mean[i] = opts.BarData{Value: float64(s.Mean().Microseconds()) / 1000}
		worst[i] = opts.BarData{Value: float64(s.Max.Microseconds()) / 1000}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Operation timings (ms)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("mean", mean).
		AddSeries("max", worst)
	return bar
}

func printMetrics(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Printf("gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName() + "{" + strings.Join(labels, ",") + "}"
			switch {
			case metric.GetCounter() != nil:
				fmt.Printf("%s %g\n", name, metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				fmt.Printf("%s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
}
