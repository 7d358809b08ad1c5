package defs

import (
	"fmt"
	"sort"
	"strings"
)

// Definition describes one analysis type or statistical term for the
// report glossary.
type Definition struct {
	Title          string
	Description    string
	UseCase        string
	Guidance       string
	Interpretation string
}

// catalogue holds every glossary entry, keyed by the label that appears in
// report output.
var catalogue = map[string]Definition{
	"Custom Analysis": {
		Title:       "Custom Analysis",
		Description: "A flexible analysis that applies transformations and basic operations (distribution, average, sum, median, duplicate counts, unique values) to chosen columns.",
		UseCase:     "Get the distribution of a category column, the average of a numeric column, or a list of unique tags.",
	},
	"Summary Statistics": {
		Title:       "Summary Statistics",
		Description: "An overview of a numeric column: count, mean, standard deviation, minimum, maximum and quartiles.",
		UseCase:     "Check the spread of a sales column or the range of a spend column at a glance.",
	},
	"Correlation Analysis": {
		Title:       "Correlation Analysis",
		Description: "Measures the statistical relationship between column pairs: Pearson for numeric pairs, Cramér's V for categorical pairs, the correlation ratio for mixed pairs.",
		UseCase:     "See whether marketing spend moves with sales, or units sold with discount rate.",
	},
	"Crosstab Analysis": {
		Title:       "Crosstabulation (Crosstab) Analysis",
		Description: "A contingency table showing how often each combination of two categorical columns appears, with optional percentage normalization.",
		UseCase:     "Break product category down by region, or return flag by channel.",
	},
	"Outlier Detection": {
		Title:       "Outlier Detection Analysis",
		Description: "Flags data points that deviate strongly from the rest of a column, by the IQR or z-score rule.",
		UseCase:     "Find unusually high or low amounts that may be errors or events worth investigating.",
	},
	"Key Driver Analysis": {
		Title:       "Key Driver Analysis (Regression)",
		Description: "Multiple linear regression quantifying how strongly each feature influences a target variable, with significance per feature.",
		UseCase:     "Understand which factors drive changes in a sales metric.",
	},
	"Time Series Analysis": {
		Title:       "Time Series Analysis",
		Description: "Aggregates a metric over fixed time periods (day, week, month, quarter, year) to expose trends and seasonality.",
		UseCase:     "Track a metric week over week or month over month.",
	},

	"Average": {
		Title:          "Average (Mean)",
		Description:    "The sum of all values divided by the number of values.",
		Interpretation: "An average sale of $100 means the typical sale is $100.",
	},
	"Sum": {
		Title:       "Sum",
		Description: "The total of all values in a numeric column.",
	},
	"Median": {
		Title:          "Median",
		Description:    "The middle value when the data is ordered; less affected by extreme outliers than the mean.",
		Interpretation: "A median of $90 means half the values are above $90 and half below.",
	},
	"Count": {
		Title:       "Count",
		Description: "The number of non-missing values in a column or category.",
	},
	"Percentage": {
		Title:          "Percentage",
		Description:    "The proportion of a value or category relative to the total, as a fraction of 100. Distribution percentages always sum to exactly 100.",
		Interpretation: "25% means the value makes up one quarter of the total.",
	},
	"Standard Deviation": {
		Title:          "Standard Deviation",
		Description:    "How far values typically spread around the mean; low means tightly clustered, high means widely spread.",
		Interpretation: "It tells you how much individual data points typically deviate from the average.",
	},
	"Quartiles": {
		Title:       "Quartiles (25% / 50% / 75%)",
		Description: "The values below which a quarter, half, and three quarters of the data fall. The 50th percentile is the median.",
	},
	"Correlation Value": {
		Title:          "Correlation Value",
		Description:    "A measure of association between two columns. Pearson ranges from -1 to 1; Cramér's V and the correlation ratio range from 0 to 1.",
		Interpretation: "Values near the extremes indicate strong relationships; values near 0 indicate weak or none.",
	},
	"IQR (Interquartile Range)": {
		Title:       "Interquartile Range (IQR) Method",
		Description: "Flags values outside Q1 - k*IQR .. Q3 + k*IQR, where IQR is the spread of the middle 50% of the data.",
		Guidance:    "The common threshold is 1.5. Lower thresholds flag more values, higher thresholds fewer.",
	},
	"Z-score": {
		Title:       "Z-score Method",
		Description: "Flags values more than the threshold number of standard deviations away from the mean.",
		Guidance:    "Common thresholds are 2.0 for mild outliers and 3.0 for extreme ones.",
	},
	"Coefficient": {
		Title:          "Coefficient (Regression)",
		Description:    "The estimated change in the target for a one-unit change in a feature, holding other features constant.",
		Interpretation: "Positive means the target rises with the feature; magnitude shows strength.",
	},
	"P-value": {
		Title:       "P-value (Regression)",
		Description: "The probability of observing a relationship this strong by chance; small values suggest a real driver.",
		Guidance:    "Values below 0.05 are conventionally treated as significant.",
	},
	"R-squared": {
		Title:          "R-squared (Regression)",
		Description:    "The share of the target's variance the model explains, from 0 to 1.",
		Interpretation: "0.75 means the features explain 75% of the variation in the target.",
	},
	"Timestamp": {
		Title:       "Timestamp (Time Series)",
		Description: "The period-end date each aggregated value belongs to.",
	},
	"Aggregated Value": {
		Title:       "Aggregated Value (Time Series)",
		Description: "The sum, average, or count of the metric within one time period.",
	},
}

// analysisOrder fixes the grouping order of the glossary.
var analysisOrder = []string{
	"Custom Analysis",
	"Summary Statistics",
	"Correlation Analysis",
	"Crosstab Analysis",
	"Outlier Detection",
	"Key Driver Analysis",
	"Time Series Analysis",
}

// groupedTerms maps each analysis type to its related terms.
var groupedTerms = map[string][]string{
	"Custom Analysis":      {"Average", "Sum", "Median", "Count", "Percentage"},
	"Summary Statistics":   {"Count", "Standard Deviation", "Quartiles"},
	"Correlation Analysis": {"Correlation Value"},
	"Crosstab Analysis":    {"Count", "Percentage"},
	"Outlier Detection":    {"IQR (Interquartile Range)", "Z-score"},
	"Key Driver Analysis":  {"Coefficient", "P-value", "R-squared"},
	"Time Series Analysis": {"Timestamp", "Aggregated Value"},
}

// Text renders the full glossary as plain text, grouped by analysis type.
func Text() string {
	var sb strings.Builder
	sb.WriteString("--- Statistical Terminology Definitions ---\n\n")
	sb.WriteString("This document explains the analysis types, statistical terms, and metrics that may appear in generated reports.\n")
	sb.WriteString("\n=======================================================\n")

	for _, name := range analysisOrder {
		def := catalogue[name]
		fmt.Fprintf(&sb, "\n### %s ###\n", def.Title)
		fmt.Fprintf(&sb, "Description: %s\n", def.Description)
		if def.UseCase != "" {
			fmt.Fprintf(&sb, "Use Case: %s\n", def.UseCase)
		}
		sb.WriteString(strings.Repeat("-", 30) + "\n")

		terms := append([]string(nil), groupedTerms[name]...)
		sort.Strings(terms)
		for _, key := range terms {
			term := catalogue[key]
			fmt.Fprintf(&sb, "  - %s:\n", term.Title)
			fmt.Fprintf(&sb, "    Description: %s\n", term.Description)
			if term.Guidance != "" {
				fmt.Fprintf(&sb, "    Threshold Guidance: %s\n", term.Guidance)
			}
			if term.Interpretation != "" {
				fmt.Fprintf(&sb, "    Interpretation: %s\n", term.Interpretation)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Markdown renders the glossary as markdown, for the HTML variant of the
// definitions endpoint.
func Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Statistical Terminology Definitions\n\n")
	sb.WriteString("Explanations for the analysis types and statistical terms appearing in generated reports.\n")

	for _, name := range analysisOrder {
		def := catalogue[name]
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", def.Title, def.Description)
		if def.UseCase != "" {
			fmt.Fprintf(&sb, "\n*Use case:* %s\n", def.UseCase)
		}
		terms := append([]string(nil), groupedTerms[name]...)
		sort.Strings(terms)
		for _, key := range terms {
			term := catalogue[key]
			fmt.Fprintf(&sb, "\n- **%s**: %s", term.Title, term.Description)
			if term.Guidance != "" {
				fmt.Fprintf(&sb, " %s", term.Guidance)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
