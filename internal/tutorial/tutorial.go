// Package tutorial renders the step-by-step Python training script offered
// to students, and the short concept cards that accompany it.
package tutorial

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"crime-insights-go/internal/catalog"
)

//go:embed steps/*.py.tmpl
var stepFiles embed.FS

// ScriptName is the download name of the combined script.
const ScriptName = "crime_prediction_complete.py"

type Step struct {
	Number      int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

type TestCase struct {
	Location string
	Hour     int
	Day      int
	Note     string
}

// Params are the values substituted into the step templates.
type Params struct {
	Dataset        string
	Figure         string
	TimeFormat     string
	TestSize       float64
	RandomState    int
	MaxDepth       int
	Trees          int
	FeatureColumns []string
	Locations      []catalog.Location
	Cases          []TestCase
}

func (p Params) TrainSize() float64 {
	return 1 - p.TestSize
}

func DefaultParams() Params {
	return Params{
		Dataset:     "crime_dataset.csv",
		Figure:      "crime_analysis_results.png",
		TimeFormat:  "%H:%M",
		TestSize:    0.2,
		RandomState: 42,
		MaxDepth:    10,
		Trees:       100,
		FeatureColumns: []string{
			"Location_Encoded", "Hour", "DayOfWeek", "IsWeekend", "Latitude", "Longitude",
		},
		Locations: catalog.Locations,
		Cases: []TestCase{
			{Location: "Anna Nagar", Hour: 22, Day: 5, Note: "Night, Saturday"},
			{Location: "T. Nagar", Hour: 14, Day: 2, Note: "Afternoon, Wednesday"},
			{Location: "Velachery", Hour: 8, Day: 0, Note: "Morning, Monday"},
			{Location: "Guindy", Hour: 20, Day: 4, Note: "Evening, Friday"},
		},
	}
}

var outline = []struct {
	file, title, description string
}{
	{"01_import.py.tmpl", "Import Libraries", "First, import all the required Python libraries"},
	{"02_load.py.tmpl", "Load Dataset", "Load the CSV file exported from the dataset page"},
	{"03_explore.py.tmpl", "Data Exploration", "Explore and understand the dataset"},
	{"04_features.py.tmpl", "Feature Engineering", "Create new features from existing data"},
	{"05_encode.py.tmpl", "Encode Categorical Variables", "Convert text categories to numbers for ML"},
	{"06_xy.py.tmpl", "Prepare Features (X) and Labels (y)", "Select which columns to use for training"},
	{"07_split.py.tmpl", "Split Data (Train/Test)", "Divide data into a training set and a test set"},
	{"08_tree.py.tmpl", "Train Decision Tree Model", "Create and train a Decision Tree classifier"},
	{"09_forest.py.tmpl", "Train Random Forest Model", "Create and train a Random Forest classifier (better accuracy)"},
	{"10_evaluate.py.tmpl", "Model Evaluation", "Detailed evaluation with classification report"},
	{"11_predict.py.tmpl", "Make New Predictions", "Use the trained model to predict crime for new inputs"},
	{"12_visualise.py.tmpl", "Create Visualizations", "Generate charts to visualize the results"},
}

var funcs = template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
	"coord":   func(f float64) string { return strconv.FormatFloat(f, 'f', 3, 64) },
}

var templates = template.Must(template.New("steps").Funcs(funcs).ParseFS(stepFiles, "steps/*.py.tmpl"))

// Steps renders every step with p.
func Steps(p Params) ([]Step, error) {
	out := make([]Step, 0, len(outline))
	for i, o := range outline {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, o.file, p); err != nil {
			return nil, fmt.Errorf("render step %d: %w", i+1, err)
		}
		out = append(out, Step{
			Number:      i + 1,
			Title:       o.title,
			Description: o.description,
			Code:        strings.TrimRight(buf.String(), "\n"),
		})
	}
	return out, nil
}

// Script joins the rendered steps into one file, separated by blank lines.
func Script(p Params) (string, error) {
	steps, err := Steps(p)
	if err != nil {
		return "", err
	}
	blocks := make([]string, len(steps))
	for i, s := range steps {
		blocks[i] = s.Code
	}
	return strings.Join(blocks, "\n\n"), nil
}
