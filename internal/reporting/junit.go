package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spboyer/parbench/internal/metrics"
	"github.com/spboyer/parbench/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one configuration.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one input file within a configuration.
type JUnitTestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	Classname string   `xml:"classname,attr"`
	Time      float64  `xml:"time,attr"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a completed run to JUnit XML. Each testcase time
// is the mean duration of that file's repetitions.
func ConvertToJUnit(rs *models.ResultSet, stats *Statistics, timestamp time.Time) *JUnitTestSuites {
	out := &JUnitTestSuites{Name: "parbench"}

	for _, agg := range rs.Aggregates {
		c := agg.Configuration
		cs, _ := stats.Get(c.Label())

		suite := JUnitTestSuite{
			Name:      c.Label(),
			Tests:     len(rs.Files),
			Time:      metrics.Seconds(agg.Total),
			Timestamp: timestamp.Format(time.RFC3339),
			Properties: []JUnitProperty{
				{Name: "mode", Value: string(c.Mode)},
				{Name: "threads", Value: fmt.Sprintf("%d", c.Threads)},
				{Name: "repetitions", Value: fmt.Sprintf("%d", rs.Repetitions)},
				{Name: "total_seconds", Value: fmt.Sprintf("%.6f", cs.TotalSeconds)},
				{Name: "speedup", Value: fmt.Sprintf("%.4f", cs.Speedup)},
			},
		}
		for _, f := range rs.Files {
			suite.TestCases = append(suite.TestCases, JUnitTestCase{
				Name:      filepath.Base(f),
				Classname: classname(c, f),
				Time:      metrics.Seconds(metrics.MeanDuration(agg.Durations[f])),
			})
		}

		out.Tests += suite.Tests
		out.Time += suite.Time
		out.TestSuites = append(out.TestSuites, suite)
	}
	return out
}

func classname(c models.Configuration, file string) string {
	dir := filepath.ToSlash(filepath.Dir(file))
	dir = strings.Trim(strings.ReplaceAll(dir, "/", "."), ".")
	if dir == "" {
		return c.Label()
	}
	return c.Label() + "." + dir
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(rs *models.ResultSet, stats *Statistics, path string) error {
	suites := ConvertToJUnit(rs, stats, time.Now().UTC())

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
