package tutorial

type Concept struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Example     string   `json:"example"`
	Techniques  []string `json:"techniques"`
}

func Concepts() []Concept {
	return []Concept{
		{
			ID:          "supervised",
			Title:       "Supervised Learning",
			Description: "Learn from labeled training data to make predictions on new data.",
			Example:     "Using historical crime data (features) with known crime types (labels) to predict future incidents.",
			Techniques:  []string{"Decision Trees", "Logistic Regression", "SVM", "Random Forest"},
		},
		{
			ID:          "features",
			Title:       "Feature Engineering",
			Description: "Select and transform raw data into meaningful features for ML models.",
			Example:     `Converting time to "morning/afternoon/night", extracting day of week, calculating distance from hotspots.`,
			Techniques:  []string{"Normalization", "One-Hot Encoding", "Feature Scaling"},
		},
		{
			ID:          "evaluation",
			Title:       "Model Evaluation",
			Description: "Assess how well your model performs using various metrics.",
			Example:     "Accuracy, Precision, Recall, F1-Score, Confusion Matrix",
			Techniques:  []string{"Cross-Validation", "Train-Test Split", "ROC Curve"},
		},
		{
			ID:          "preprocessing",
			Title:       "Data Preprocessing",
			Description: "Clean and prepare data before training ML models.",
			Example:     "Handling missing values, removing outliers, encoding categorical variables.",
			Techniques:  []string{"Imputation", "Outlier Detection", "Label Encoding"},
		},
	}
}
