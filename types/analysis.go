package types

import (
	"fmt"
	"os"
	"path"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// OutcomeDataSet summarises the episodes of one experiment
type OutcomeDataSet struct {
	Episodes  int
	Successes int
	Lengths   []float64
	Returns   []float64
	// number of cross-time memory associations per episode
	Recalls []float64
	// longest recall distance on the timeline per episode
	MaxRecall []float64
}

func (o *OutcomeDataSet) SuccessRate() float64 {
	if o.Episodes == 0 {
		return 0
	}
	return float64(o.Successes) / float64(o.Episodes)
}

func (o *OutcomeDataSet) MeanLength() float64 {
	if len(o.Lengths) == 0 {
		return 0
	}
	return stat.Mean(o.Lengths, nil)
}

func (o *OutcomeDataSet) StdLength() float64 {
	if len(o.Lengths) < 2 {
		return 0
	}
	return stat.StdDev(o.Lengths, nil)
}

func (o *OutcomeDataSet) MaxLength() int {
	max := 0.0
	for _, l := range o.Lengths {
		if l > max {
			max = l
		}
	}
	return int(max)
}

func (o *OutcomeDataSet) MeanReturn() float64 {
	if len(o.Returns) == 0 {
		return 0
	}
	return stat.Mean(o.Returns, nil)
}

func (o *OutcomeDataSet) MeanRecalls() float64 {
	if len(o.Recalls) == 0 {
		return 0
	}
	return stat.Mean(o.Recalls, nil)
}

// OutcomeAnalyzer collects success, length, return and association statistics
type OutcomeAnalyzer struct {
	dataSet *OutcomeDataSet
}

var _ Analyzer = &OutcomeAnalyzer{}

func NewOutcomeAnalyzer() *OutcomeAnalyzer {
	return &OutcomeAnalyzer{dataSet: &OutcomeDataSet{}}
}

func (a *OutcomeAnalyzer) Analyze(_ string, t *Trace) {
	d := a.dataSet
	d.Episodes += 1
	if t.Success {
		d.Successes += 1
	}
	d.Lengths = append(d.Lengths, float64(t.Len()))
	d.Returns = append(d.Returns, t.Return())

	recalls := Recalls(t.Associations())
	maxRecall := 0
	for _, r := range recalls {
		if r.Distance() > maxRecall {
			maxRecall = r.Distance()
		}
	}
	d.Recalls = append(d.Recalls, float64(len(recalls)))
	d.MaxRecall = append(d.MaxRecall, float64(maxRecall))
}

func (a *OutcomeAnalyzer) DataSet() DataSet {
	return a.dataSet
}

func (a *OutcomeAnalyzer) Reset() {
	a.dataSet = &OutcomeDataSet{}
}

// PrintComparator prints one summary line per experiment
func PrintComparator() Comparator {
	return func(names []string, ds []DataSet) {
		for i, name := range names {
			d := ds[i].(*OutcomeDataSet)
			fmt.Printf("%s: episodes %d, success %5.1f%%, length %.2f±%.2f (max %d), return %.3f, recalls/episode %.2f\n",
				name, d.Episodes, d.SuccessRate()*100, d.MeanLength(), d.StdLength(), d.MaxLength(), d.MeanReturn(), d.MeanRecalls())
		}
	}
}

// OutcomePlotter saves a success rate bar chart and an episode length box plot
func OutcomePlotter(plotPath string) Comparator {
	return func(names []string, ds []DataSet) {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			fmt.Printf("could not create plot directory: %s\n", err)
			return
		}

		rates := make(plotter.Values, len(names))
		for i := range names {
			rates[i] = ds[i].(*OutcomeDataSet).SuccessRate()
		}
		p := plot.New()
		p.Title.Text = "Success rate"
		p.Y.Label.Text = "Success rate"
		p.Y.Min = 0
		p.Y.Max = 1
		bars, err := plotter.NewBarChart(rates, vg.Points(30))
		if err == nil {
			bars.Color = plotutil.Color(0)
			p.Add(bars)
			p.NominalX(names...)
			if err := p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, "success_rate.png")); err != nil {
				fmt.Printf("could not save success rate plot: %s\n", err)
			}
		}

		p = plot.New()
		p.Title.Text = "Episode length"
		p.Y.Label.Text = "Steps"
		for i := range names {
			lengths := plotter.Values(ds[i].(*OutcomeDataSet).Lengths)
			if len(lengths) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), lengths)
			if err != nil {
				continue
			}
			box.FillColor = plotutil.Color(i)
			p.Add(box)
		}
		p.NominalX(names...)
		if err := p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, "episode_length.png")); err != nil {
			fmt.Printf("could not save episode length plot: %s\n", err)
		}
	}
}
