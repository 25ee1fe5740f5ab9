package heading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_heading_command/internal/adapters/logger"
	"github.com/baditaflorin/go_heading_command/internal/adapters/memdoc"
	"github.com/baditaflorin/go_heading_command/internal/adapters/normalizer"
	"github.com/baditaflorin/go_heading_command/internal/adapters/notifier"
	"github.com/baditaflorin/go_heading_command/internal/adapters/title"
	"github.com/baditaflorin/go_heading_command/internal/core/domain"
	"github.com/baditaflorin/go_heading_command/internal/core/identifier"
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

const titleID = "#title"

type fixture struct {
	doc     *memdoc.Document
	page    title.Page
	alerts  *notifier.Recorder
	command *Command
	blocks  []*memdoc.Block
}

func newFixture(t *testing.T, markdown string, pageTitle title.Field) *fixture {
	t.Helper()
	doc, err := memdoc.NewParser().ParseString(markdown)
	require.NoError(t, err)

	log := logger.NewDiscardLogger()
	page := title.Page{titleID: pageTitle}
	alerts := &notifier.Recorder{}
	gen, err := identifier.NewGenerator(identifier.Config{
		Normalizer:          normalizer.NewHeadingNormalizer(),
		Titles:              title.NewFallbackReader(page, titleID, log),
		Snippets:            identifier.SelectionSnippet{Selection: doc.Selection()},
		Notifier:            alerts,
		MissingTitleMessage: "Bitte Titel setzen",
		Logger:              log,
	})
	require.NoError(t, err)

	cmd, err := NewCommand(doc, domain.DefaultModelElements, gen, log)
	require.NoError(t, err)

	return &fixture{doc: doc, page: page, alerts: alerts, command: cmd, blocks: doc.Blocks()}
}

func TestExecuteParagraphToHeading(t *testing.T) {
	f := newFixture(t, "erste Zeile\n", title.Field{Text: "Mein Titel"})
	require.NoError(t, f.doc.Select(0, 0))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading2})

	require.NoError(t, err)
	assert.Equal(t, domain.Heading2, f.blocks[0].Name())
	id, ok := f.blocks[0].Attribute(domain.IDAttribute)
	require.True(t, ok)
	assert.Equal(t, "MeinTitel_ErsteZeile", id)
	assert.Equal(t, []domain.Change{{From: domain.Paragraph, To: domain.Heading2, ID: "MeinTitel_ErsteZeile"}}, report.Changes)
	assert.Empty(t, f.alerts.Messages())
}

func TestExecuteTwiceDoesNotRegenerateID(t *testing.T) {
	f := newFixture(t, "erste Zeile\n", title.Field{Text: "Mein Titel"})
	require.NoError(t, f.doc.Select(0, 0))

	_, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading2})
	require.NoError(t, err)

	// A different title would produce a different id if it were regenerated.
	f.page[titleID] = title.Field{Text: "Anderer Titel"}
	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading2})

	require.NoError(t, err)
	assert.Empty(t, report.Changes)
	assert.Equal(t, 1, report.Unchanged)
	id, _ := f.blocks[0].Attribute(domain.IDAttribute)
	assert.Equal(t, "MeinTitel_ErsteZeile", id)
}

func TestExecuteMissingTitleAlertsOnceAndContinues(t *testing.T) {
	f := newFixture(t, "Hallo! Welt?\n", title.Field{})
	require.NoError(t, f.doc.Select(0, 0))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading1})

	require.NoError(t, err)
	assert.Equal(t, []string{"Bitte Titel setzen"}, f.alerts.Messages())
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "_HalloWelt", report.Changes[0].ID)
}

func TestExecuteFormValueFallback(t *testing.T) {
	f := newFixture(t, "text\n", title.Field{FormValue: "Aus dem Feld"})
	require.NoError(t, f.doc.Select(0, 0))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading3})

	require.NoError(t, err)
	assert.Equal(t, "AusDemFeld_Text", report.Changes[0].ID)
	assert.Empty(t, f.alerts.Messages())
}

func TestExecuteMultipleBlocksShareSnippet(t *testing.T) {
	// Every id is built from the first item of the selection, so converting
	// several blocks at once yields identical ids.
	f := newFixture(t, "eins\n\nzwei\n", title.Field{Text: "T"})
	require.NoError(t, f.doc.Select(0, 1))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading2})

	require.NoError(t, err)
	require.Len(t, report.Changes, 2)
	assert.Equal(t, "T_Eins", report.Changes[0].ID)
	assert.Equal(t, "T_Eins", report.Changes[1].ID)
}

func TestExecuteCaretGivesEmptySnippet(t *testing.T) {
	f := newFixture(t, "eins\n", title.Field{Text: "Seite"})
	require.NoError(t, f.doc.SetCaret(0))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading2})

	require.NoError(t, err)
	assert.Equal(t, "Seite_", report.Changes[0].ID)
}

func TestExecuteSkipsSchemaRejections(t *testing.T) {
	f := newFixture(t, "absatz\n\n- punkt\n\n![bild](b.png)\n", title.Field{Text: "T"})
	require.NoError(t, f.doc.Select(0, 2))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading4})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Rejected, "list item paragraph and image are skipped")
	require.Len(t, report.Changes, 1)
	assert.Equal(t, domain.Heading4, f.blocks[0].Name())
	assert.Equal(t, domain.Paragraph, f.blocks[1].Name())
	assert.Equal(t, memdoc.ImageName, f.blocks[2].Name())
}

func TestExecuteHeadingToParagraphKeepsID(t *testing.T) {
	f := newFixture(t, "## Kapitel {#kap}\n", title.Field{Text: "T"})
	require.NoError(t, f.doc.Select(0, 0))

	report, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Paragraph})

	require.NoError(t, err)
	assert.Equal(t, []domain.Change{{From: domain.Heading2, To: domain.Paragraph}}, report.Changes)
	id, _ := f.blocks[0].Attribute(domain.IDAttribute)
	assert.Equal(t, "kap", id)
}

func TestExecuteHeadingLevelChangeRegeneratesID(t *testing.T) {
	f := newFixture(t, "## Kapitel {#kap}\n", title.Field{Text: "T"})
	require.NoError(t, f.doc.Select(0, 0))

	_, err := f.command.Execute(context.Background(), domain.Options{Value: domain.Heading3})

	require.NoError(t, err)
	id, _ := f.blocks[0].Attribute(domain.IDAttribute)
	assert.Equal(t, "T_Kapitel", id)
}

func TestExecuteUnknownElement(t *testing.T) {
	f := newFixture(t, "text\n", title.Field{Text: "T"})
	require.NoError(t, f.doc.Select(0, 0))

	_, err := f.command.Execute(context.Background(), domain.Options{Value: "heading7"})

	assert.ErrorIs(t, err, domain.ErrUnknownElement)
	assert.Equal(t, domain.Paragraph, f.blocks[0].Name())
}

func TestExecuteCancelledContext(t *testing.T) {
	f := newFixture(t, "text\n", title.Field{Text: "T"})
	require.NoError(t, f.doc.Select(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.command.Execute(ctx, domain.Options{Value: domain.Heading1})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.Paragraph, f.blocks[0].Name())
}

type failingGenerator struct{ mock.Mock }

func (g *failingGenerator) Generate(ctx context.Context) (string, error) {
	args := g.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestExecuteRollsBackOnGeneratorError(t *testing.T) {
	doc, err := memdoc.NewParser().ParseString("eins\n\nzwei\n")
	require.NoError(t, err)
	require.NoError(t, doc.Select(0, 1))

	gen := &failingGenerator{}
	gen.On("Generate", mock.Anything).Return("first", nil).Once()
	gen.On("Generate", mock.Anything).Return("", errors.New("no id")).Once()

	cmd, err := NewCommand(doc, domain.DefaultModelElements, gen, logger.NewDiscardLogger())
	require.NoError(t, err)

	_, err = cmd.Execute(context.Background(), domain.Options{Value: domain.Heading1})

	require.Error(t, err)
	for _, b := range doc.Blocks() {
		assert.Equal(t, domain.Paragraph, b.Name())
		_, ok := b.Attribute(domain.IDAttribute)
		assert.False(t, ok)
	}
	gen.AssertExpectations(t)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, "absatz\n\n### drei\n\n![bild](b.png)\n\n- punkt\n", title.Field{Text: "T"})

	tests := []struct {
		name     string
		selectFn func() error
		expected domain.State
	}{
		{
			name:     "no selection",
			selectFn: func() error { f.doc.ClearSelection(); return nil },
			expected: domain.State{},
		},
		{
			name:     "paragraph",
			selectFn: func() error { return f.doc.Select(0, 0) },
			expected: domain.State{Value: domain.Paragraph, IsEnabled: true},
		},
		{
			name:     "heading",
			selectFn: func() error { return f.doc.Select(1, 2) },
			expected: domain.State{Value: domain.Heading3, IsEnabled: true},
		},
		{
			name:     "object",
			selectFn: func() error { return f.doc.Select(2, 2) },
			expected: domain.State{},
		},
		{
			name:     "list item paragraph can stay a paragraph",
			selectFn: func() error { return f.doc.Select(3, 3) },
			expected: domain.State{Value: domain.Paragraph, IsEnabled: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.selectFn())
			assert.Equal(t, tc.expected, f.command.Refresh())
			assert.Equal(t, tc.expected, f.command.State())
		})
	}
}

func TestRefreshHeadingOnlyCommandInListItem(t *testing.T) {
	doc, err := memdoc.NewParser().ParseString("- punkt\n")
	require.NoError(t, err)
	require.NoError(t, doc.Select(0, 0))

	cmd, err := NewCommand(doc, domain.HeadingElements, &failingGenerator{}, logger.NewDiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, domain.State{}, cmd.Refresh())
}

func TestNewCommandValidation(t *testing.T) {
	log := logger.NewDiscardLogger()
	doc := memdoc.New(nil)

	_, err := NewCommand(nil, domain.DefaultModelElements, &failingGenerator{}, log)
	assert.ErrorIs(t, err, domain.ErrNoModel)

	_, err = NewCommand(doc, domain.DefaultModelElements, nil, log)
	assert.Error(t, err)

	_, err = NewCommand(doc, nil, &failingGenerator{}, log)
	assert.Error(t, err)
}

func TestCanBecomeHeading(t *testing.T) {
	doc := memdoc.New(nil)
	p := doc.AppendBlock(nil, domain.Paragraph, "x", nil)
	img := doc.AppendBlock(nil, memdoc.ImageName, "", nil)
	var schema ports.Schema = doc.Schema()

	assert.True(t, CanBecomeHeading(p, domain.Heading1, schema))
	assert.False(t, CanBecomeHeading(img, domain.Heading1, schema))
	assert.False(t, CanBecomeHeading(p, "table", schema))
}
