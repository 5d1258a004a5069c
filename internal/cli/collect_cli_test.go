package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
	mock_inference "github.com/michaelanticoli/quantumelodic/internal/mocks/inference"
)

func descriptionsOf(term string) inference.Descriptions {
	return inference.Descriptions{
		Astrology: inference.AstrologyDescription{
			Definition: term + " definition",
			KeyPoints:  []string{"first", "second"},
			Example:    term + " astrology example",
		},
		Music: inference.MusicDescription{
			Analogy:   term + " analogy",
			KeyPoints: []string{"rhythm"},
			Example:   term + " music example",
		},
		Mathematics: inference.MathematicsDescription{
			Concept:   term + " concept",
			KeyPoints: []string{"proof"},
			Example:   term + " math example",
		},
	}
}

func disableColor(t *testing.T) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })
}

func TestEntryPrinter_PrintAll(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name    string
		entries []knowledge.Entry
		want    string
	}{
		{
			name: "no entries",
			want: "No terms yet.\n",
		},
		{
			name:    "one block per entry",
			entries: []knowledge.Entry{knowledge.NewEntry("Saturn", descriptionsOf("saturn"))},
			want: "All Terms (1)\n\nsaturn\n" +
				"  Astrology Definition: saturn definition\n" +
				"  Astrology Key Points: first, second\n" +
				"  Astrology Example: saturn astrology example\n" +
				"  Music Analogy: saturn analogy\n" +
				"  Music Key Points: rhythm\n" +
				"  Music Example: saturn music example\n" +
				"  Mathematics Concept: saturn concept\n" +
				"  Mathematics Key Points: proof\n" +
				"  Mathematics Example: saturn math example\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewEntryPrinter(&buf).PrintAll(tc.entries)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestConsoleReporter(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	reporter := NewConsoleReporter(&buf)
	reporter.Report(collector.LevelInfo, "Processing batch 1 of 1...")
	reporter.Report(collector.LevelError, "Error generating descriptions for term 'x': boom")
	reporter.Report(collector.LevelSuccess, "All terms added successfully!")

	assert.Equal(t, "Processing batch 1 of 1...\n"+
		"Error generating descriptions for term 'x': boom\n"+
		"All terms added successfully!\n", buf.String())
}

func TestCollectCLI_Add(t *testing.T) {
	disableColor(t)

	client := mock_inference.NewMockClient(gomock.NewController(t))
	client.EXPECT().Describe(gomock.Any(), inference.DescribeRequest{Term: "Saturn"}).Return(descriptionsOf("saturn"), nil)
	client.EXPECT().Describe(gomock.Any(), inference.DescribeRequest{Term: "octave"}).
		Return(inference.Descriptions{}, errors.New("response error 500: boom"))

	repo := knowledge.NewMemoryRepository()
	var stdout bytes.Buffer
	cli := NewCollectCLI(collector.NewCollector(client, repo, 0), repo, 20, strings.NewReader(""), &stdout)

	result, err := cli.Add(context.Background(), "Saturn, octave")
	require.NoError(t, err)
	assert.Equal(t, []string{"saturn"}, result.Added)
	require.Len(t, result.Failures, 1)

	out := stdout.String()
	assert.Contains(t, out, "Processing batch 1 of 1...\n")
	assert.Contains(t, out, "Error generating descriptions for term 'octave'")
	assert.Contains(t, out, "All terms added successfully!\n")
	assert.Contains(t, out, "All Terms (1)\n")
	assert.Contains(t, out, "  Astrology Key Points: first, second\n")
}

func TestCollectCLI_Run(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		setupMock func(client *mock_inference.MockClient)
		wantKeys  []string
	}{
		{
			name:  "each line is collected until an empty line",
			stdin: "saturn, octave\nfractal\n\nignored\n",
			setupMock: func(client *mock_inference.MockClient) {
				for _, term := range []string{"saturn", "octave", "fractal"} {
					client.EXPECT().Describe(gomock.Any(), inference.DescribeRequest{Term: term}).Return(descriptionsOf(term), nil)
				}
			},
			wantKeys: []string{"saturn", "octave", "fractal"},
		},
		{
			name:  "last line without newline is collected before EOF",
			stdin: "saturn",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().Describe(gomock.Any(), inference.DescribeRequest{Term: "saturn"}).Return(descriptionsOf("saturn"), nil)
			},
			wantKeys: []string{"saturn"},
		},
		{
			name:      "immediate EOF",
			stdin:     "",
			setupMock: func(client *mock_inference.MockClient) {},
			wantKeys:  []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			disableColor(t)
			client := mock_inference.NewMockClient(gomock.NewController(t))
			tc.setupMock(client)
			repo := knowledge.NewMemoryRepository()
			var stdout bytes.Buffer

			cli := NewCollectCLI(collector.NewCollector(client, repo, 0), repo, 20, strings.NewReader(tc.stdin), &stdout)
			require.NoError(t, cli.Run(context.Background()))

			entries, err := repo.All(context.Background())
			require.NoError(t, err)
			keys := []string{}
			for _, entry := range entries {
				keys = append(keys, entry.Term)
			}
			assert.Equal(t, tc.wantKeys, keys)
			assert.Contains(t, stdout.String(), "Enter terms separated by commas: ")
		})
	}
}
