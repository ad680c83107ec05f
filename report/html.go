package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/primeshield/primeshield/stats"
)

// gapPoint is the per-gap slice of the table exposed to the charts.
type gapPoint struct {
	Gap          uint64  `json:"gap_size"`
	SuccessRate  float64 `json:"success_rate"`
	Boost        float64 `json:"theoretical_boost"`
	ShieldScore  int     `json:"shield_score"`
	ShieldPrimes string  `json:"shield_primes"`
}

// oscPoint is one bin of the oscillation series exposed to the charts.
type oscPoint struct {
	BinStart uint64             `json:"bin_start"`
	Ratio    float64            `json:"ratio_s_p"`
	GapRates map[string]float64 `json:"gap_rates"`
}

// EmitReport renders the self-contained HTML report. The report embeds
// its data directly, so it stays readable even when the CSV artifacts
// are compressed.
func (e *Emitter) EmitReport(ctx context.Context, t *stats.Table) error {
	var gaps []gapPoint
	for _, rec := range t.Records {
		if rec.ObservedRate <= 0 {
			continue // zero-data gaps only clutter the charts
		}
		gaps = append(gaps, gapPoint{
			Gap:          rec.Gap,
			SuccessRate:  rec.ObservedRate,
			Boost:        rec.TheoreticalBoost,
			ShieldScore:  rec.ShieldScore,
			ShieldPrimes: joinPrimes(rec.ShieldedPrimes),
		})
	}

	var osc []oscPoint
	for _, bin := range t.Bins {
		if bin.PrimeCount == 0 {
			continue
		}
		p := oscPoint{
			BinStart: bin.Start,
			Ratio:    float64(bin.SuccessCount) / float64(bin.PrimeCount),
			GapRates: make(map[string]float64, len(t.TrackedGaps)),
		}
		for _, g := range t.TrackedGaps {
			var rate float64
			if occ := bin.GapOccurrences[g]; occ > 0 {
				rate = float64(bin.GapSuccesses[g]) / float64(occ)
			}
			p.GapRates[fmt.Sprintf("%d", g)] = rate
		}
		osc = append(osc, p)
	}

	gapJSON, err := json.Marshal(gaps)
	if err != nil {
		return err
	}
	oscJSON, err := json.Marshal(osc)
	if err != nil {
		return err
	}
	trackedJSON, err := json.Marshal(t.TrackedGaps)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = reportTemplate.Execute(&buf, map[string]any{
		"MaxN":         t.Limit,
		"ExpectedRate": t.ExpectedRate,
		"GapData":      template.JS(gapJSON),
		"OscData":      template.JS(oscJSON),
		"TrackedGaps":  template.JS(trackedJSON),
	})
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	return e.store.Put(ctx, ReportName, buf.Bytes())
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Prime Sum Analysis Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 0; background-color: #f8f9fa; color: #212529; }
        .container { max-width: 1200px; margin: 2rem auto; padding: 2rem; background-color: #fff; border-radius: 8px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
        h1, h2 { text-align: center; color: #343a40; }
        .summary { text-align: center; margin-bottom: 2rem; color: #6c757d; }
        .chart-container { margin-top: 2rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Prime Sum Analysis Report</h1>
        <div class="summary">
            <p><strong>Max N:</strong> {{.MaxN}} | <strong>Baseline 1/ln(N):</strong> {{printf "%.6f" .ExpectedRate}}</p>
        </div>

        <div class="chart-container">
            <h2>Theory Verification</h2>
            <canvas id="verificationChart"></canvas>
        </div>

        <div class="chart-container">
            <h2>S = p_n + p_(n+1) - 1 Primality Ratio Oscillation</h2>
            <canvas id="oscillationChart"></canvas>
        </div>

        <div class="chart-container">
            <h2>Gap Success Rate Spectrum (Gaps &le; 60)</h2>
            <canvas id="gapChart"></canvas>
        </div>
    </div>

    <script>
        const gapData = {{.GapData}};
        const oscData = {{.OscData}};
        const targetGaps = {{.TrackedGaps}};

        function linearRegression(points) {
            const n = points.length;
            if (n === 0) return { m: 0, b: 0 };
            let sx = 0, sy = 0, sxy = 0, sxx = 0;
            points.forEach(p => { sx += p.x; sy += p.y; sxy += p.x * p.y; sxx += p.x * p.x; });
            const m = (n * sxy - sx * sy) / (n * sxx - sx * sx);
            return { m: m, b: (sy - m * sx) / n };
        }

        const verification = gapData.map(d => ({
            x: d.theoretical_boost,
            y: d.success_rate,
            gap: d.gap_size,
            primes: d.shield_primes
        }));
        const reg = linearRegression(verification);

        new Chart(document.getElementById('verificationChart'), {
            type: 'scatter',
            data: {
                datasets: [
                    {
                        label: 'Observed rate vs theoretical boost',
                        data: verification,
                        backgroundColor: 'rgba(54, 162, 235, 0.7)'
                    },
                    {
                        label: 'Trend',
                        type: 'line',
                        data: verification.map(p => ({ x: p.x, y: reg.m * p.x + reg.b })),
                        borderColor: 'rgba(255, 99, 132, 0.8)',
                        pointRadius: 0,
                        fill: false
                    }
                ]
            },
            options: {
                scales: {
                    x: { title: { display: true, text: 'Theoretical boost' } },
                    y: { title: { display: true, text: 'Observed success rate' } }
                },
                plugins: {
                    tooltip: {
                        callbacks: {
                            label: ctx => 'gap ' + ctx.raw.gap + ' [' + ctx.raw.primes + ']: ' + ctx.parsed.y.toFixed(4)
                        }
                    }
                }
            }
        });

        new Chart(document.getElementById('oscillationChart'), {
            type: 'line',
            data: {
                labels: oscData.map(d => d.bin_start),
                datasets: [{
                    label: 'S/P ratio',
                    data: oscData.map(d => d.ratio_s_p),
                    borderColor: 'rgba(75, 192, 192, 1)',
                    pointRadius: 0
                }].concat(targetGaps.map((g, i) => ({
                    label: 'gap ' + g,
                    data: oscData.map(d => d.gap_rates[String(g)]),
                    borderColor: 'hsl(' + (i * 67 % 360) + ', 70%, 50%)',
                    pointRadius: 0,
                    hidden: true
                })))
            },
            options: { animation: false }
        });

        const spectrum = gapData.filter(d => d.gap_size <= 60);
        new Chart(document.getElementById('gapChart'), {
            type: 'bar',
            data: {
                labels: spectrum.map(d => d.gap_size),
                datasets: [
                    {
                        label: 'Observed success rate',
                        data: spectrum.map(d => d.success_rate),
                        backgroundColor: spectrum.map(d => 'rgba(54, 162, 235, ' + (0.3 + 0.2 * d.shield_score) + ')')
                    }
                ]
            },
            options: { animation: false }
        });
    </script>
</body>
</html>
`))
