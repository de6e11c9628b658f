package stream

import "testing"

func TestClassify_PriorityOrder(t *testing.T) {
	cases := []struct {
		name  string
		block string
		want  Category
	}{
		{"solution close tag", "<solution>Protocol: do X</solution>", CategoryFinalAnswer},
		{"solution tail only", "remaining protocol text</solution>", CategoryFinalAnswer},
		{"final protocol heading", "FINAL PROTOCOL\n1. digest the vector", CategoryFinalAnswer},
		{"solution wins over execute", "<execute>x</execute>\n<solution>done</solution>", CategoryFinalAnswer},
		{"matplotlib visualization", "<execute>\nimport matplotlib\nplt.plot(x)\n</execute>", CategoryVisualization},
		{"plotly visualization", "<execute>\nimport plotly.express as px\n</execute>", CategoryVisualization},
		{"seaborn alias visualization", "<execute>\nsns.heatmap(df)\n</execute>", CategoryVisualization},
		{"chart signature without execute is not visualization", "we could use matplotlib here", CategoryStatus},
		{"execute block", "<execute>\nimport tool\nprint(1)\n</execute>", CategoryToolCall},
		{"unterminated execute still tool_call", "<execute>unterminated", CategoryToolCall},
		{"observation", "<observation>Result: 42</observation>", CategoryObservation},
		{"execute wins over observation", "<execute>x</execute><observation>y</observation>", CategoryToolCall},
		{"reasoning", "**Reasoning:** considering gene X", CategoryReasoning},
		{"plan heading", "**Plan:**\nwe will do things", CategoryPlanning},
		{"checklist lines", "1. [✓] Step one\n2. [ ] Step two", CategoryPlanning},
		{"step marker", "Step 3: amplify the fragment", CategoryPlanning},
		{"error keyword", "Error: gene not found", CategoryError},
		{"failed keyword", "Failed: database unreachable", CategoryError},
		{"invalid keyword", "Invalid sequence supplied", CategoryError},
		{"cannot proceed", "cannot proceed without a sequence", CategoryError},
		{"default status", "Searching the literature for CRISPR references", CategoryStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.block); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.block, got, tc.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	block := "**Reasoning:** considering gene X"
	first := Classify(block)
	for range 10 {
		if got := Classify(block); got != first {
			t.Fatalf("Classify not deterministic: %q then %q", first, got)
		}
	}
}

func TestDetectChartLibrary(t *testing.T) {
	cases := []struct {
		block string
		want  string
		ok    bool
	}{
		{"import matplotlib.pyplot as plt", "matplotlib", true},
		{"plt.savefig('out.png')", "matplotlib", true},
		{"import plotly.express", "plotly", true},
		{"sns.heatmap(df)", "seaborn", true},
		{"print('no charts')", "", false},
	}
	for _, tc := range cases {
		got, ok := detectChartLibrary(tc.block)
		if got != tc.want || ok != tc.ok {
			t.Errorf("detectChartLibrary(%q) = (%q, %v), want (%q, %v)", tc.block, got, ok, tc.want, tc.ok)
		}
	}
}
