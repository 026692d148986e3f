// Package metrics exposes store and connectivity state as Prometheus metrics.
package metrics

import (
	"github.com/EO-DataHub/eodhp-staff-directory/internal/connectivity"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/persistence"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "staff_directory"

// Source is the read side of the store the collector scrapes.
type Source interface {
	Departments() []models.Department
	Team() []models.Person
	Projects() []models.Project
	NextPage() int
	PersistStats() persistence.Stats
}

// Collector reads its values at scrape time, so nothing is updated on the
// write paths.
type Collector struct {
	source       Source
	connectivity connectivity.Checker

	people      *prometheus.Desc
	teamSize    *prometheus.Desc
	projects    *prometheus.Desc
	nextPage    *prometheus.Desc
	reachable   *prometheus.Desc
	snapshots   *prometheus.Desc
	writes      *prometheus.Desc
	writeErrors *prometheus.Desc
}

func NewCollector(source Source, checker connectivity.Checker) *Collector {
	return &Collector{
		source:       source,
		connectivity: checker,
		people: prometheus.NewDesc(prometheus.BuildFQName(namespace, "directory", "people"),
			"People cached in the directory by department.", []string{"department"}, nil),
		teamSize: prometheus.NewDesc(prometheus.BuildFQName(namespace, "team", "members"),
			"People in the team.", nil, nil),
		projects: prometheus.NewDesc(prometheus.BuildFQName(namespace, "projects", "total"),
			"Projects in the project list.", nil, nil),
		nextPage: prometheus.NewDesc(prometheus.BuildFQName(namespace, "directory", "next_page"),
			"Page the next directory fetch will request.", nil, nil),
		reachable: prometheus.NewDesc(prometheus.BuildFQName(namespace, "provider", "reachable"),
			"1 when the person provider is reachable.", nil, nil),
		snapshots: prometheus.NewDesc(prometheus.BuildFQName(namespace, "persist", "snapshots_total"),
			"Snapshots handed to the persister.", nil, nil),
		writes: prometheus.NewDesc(prometheus.BuildFQName(namespace, "persist", "writes_total"),
			"Snapshots written to storage.", nil, nil),
		writeErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, "persist", "write_errors_total"),
			"Snapshot writes that failed.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.people
	ch <- c.teamSize
	ch <- c.projects
	ch <- c.nextPage
	ch <- c.reachable
	ch <- c.snapshots
	ch <- c.writes
	ch <- c.writeErrors
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, d := range c.source.Departments() {
		ch <- prometheus.MustNewConstMetric(c.people, prometheus.GaugeValue, float64(d.Count), d.Name)
	}
	ch <- prometheus.MustNewConstMetric(c.teamSize, prometheus.GaugeValue, float64(len(c.source.Team())))
	ch <- prometheus.MustNewConstMetric(c.projects, prometheus.GaugeValue, float64(len(c.source.Projects())))
	ch <- prometheus.MustNewConstMetric(c.nextPage, prometheus.GaugeValue, float64(c.source.NextPage()))

	reachable := 0.0
	if c.connectivity != nil && c.connectivity.Reachable() {
		reachable = 1
	}
	ch <- prometheus.MustNewConstMetric(c.reachable, prometheus.GaugeValue, reachable)

	st := c.source.PersistStats()
	ch <- prometheus.MustNewConstMetric(c.snapshots, prometheus.CounterValue, float64(st.Saved))
	ch <- prometheus.MustNewConstMetric(c.writes, prometheus.CounterValue, float64(st.Written))
	ch <- prometheus.MustNewConstMetric(c.writeErrors, prometheus.CounterValue, float64(st.Failed))
}
