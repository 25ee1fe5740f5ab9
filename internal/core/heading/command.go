package heading

import (
	"context"
	"errors"
	"fmt"

	"github.com/baditaflorin/go_heading_command/internal/core/domain"
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// Command converts selected blocks into headings or paragraphs.
type Command struct {
	model    ports.Model
	elements []string
	ids      ports.IdentifierGenerator
	logger   ports.Logger

	state domain.State
}

// NewCommand creates a command for the given model elements, e.g.
// domain.DefaultModelElements.
func NewCommand(model ports.Model, elements []string, ids ports.IdentifierGenerator, logger ports.Logger) (*Command, error) {
	if model == nil {
		return nil, domain.ErrNoModel
	}
	if ids == nil {
		return nil, errors.New("identifier generator is required")
	}
	if len(elements) == 0 {
		return nil, errors.New("at least one model element is required")
	}
	return &Command{
		model:    model,
		elements: append([]string(nil), elements...),
		ids:      ids,
		logger:   logger,
	}, nil
}

// ModelElements returns the element names the command supports.
func (c *Command) ModelElements() []string {
	return append([]string(nil), c.elements...)
}

// State returns the result of the last Refresh.
func (c *Command) State() domain.State {
	return c.state
}

// Refresh recomputes the command state from the first selected block.
func (c *Command) Refresh() domain.State {
	schema := c.model.Schema()
	block := firstBlock(c.model.Selection())

	state := domain.State{}
	if block != nil {
		if c.supports(block.Name()) {
			state.Value = block.Name()
		}
		for _, name := range c.elements {
			if CanBecomeHeading(block, name, schema) {
				state.IsEnabled = true
				break
			}
		}
	}
	c.state = state
	return state
}

// Execute converts every selected block the schema allows into opts.Value.
// Blocks that already have that type are left alone, so their id is not
// regenerated. All changes happen in one model transaction.
func (c *Command) Execute(ctx context.Context, opts domain.Options) (domain.Report, error) {
	report := domain.Report{Value: opts.Value}
	if !c.supports(opts.Value) {
		return report, fmt.Errorf("%w: %q", domain.ErrUnknownElement, opts.Value)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	isHeading := domain.IsHeading(opts.Value)
	schema := c.model.Schema()

	err := c.model.Change(func(w ports.Writer) error {
		for _, block := range c.model.Selection().SelectedBlocks() {
			if !CanBecomeHeading(block, opts.Value, schema) {
				report.Rejected++
				continue
			}
			if block.Name() == opts.Value {
				report.Unchanged++
				continue
			}

			change := domain.Change{From: block.Name(), To: opts.Value}
			if err := w.Rename(block, opts.Value); err != nil {
				return fmt.Errorf("rename %s to %s: %w", change.From, opts.Value, err)
			}
			if isHeading {
				id, err := c.ids.Generate(ctx)
				if err != nil {
					return fmt.Errorf("generate identifier: %w", err)
				}
				if err := w.SetAttribute(domain.IDAttribute, id, block); err != nil {
					return fmt.Errorf("set %s attribute: %w", domain.IDAttribute, err)
				}
				change.ID = id
			}
			report.Changes = append(report.Changes, change)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Heading command failed", "value", opts.Value, "error", err)
		return domain.Report{Value: opts.Value}, err
	}

	c.logger.Info("Heading command executed",
		"value", opts.Value,
		"changed", len(report.Changes),
		"unchanged", report.Unchanged,
		"rejected", report.Rejected,
	)
	c.Refresh()
	return report, nil
}

// CanBecomeHeading reports whether block may be turned into name: its parent
// must accept name as a child and block must not be an object.
func CanBecomeHeading(block ports.Element, name string, schema ports.Schema) bool {
	return schema.CheckChild(block.Parent(), name) && !schema.IsObject(block)
}

func (c *Command) supports(name string) bool {
	for _, e := range c.elements {
		if e == name {
			return true
		}
	}
	return false
}

func firstBlock(sel ports.Selection) ports.Element {
	if sel == nil {
		return nil
	}
	blocks := sel.SelectedBlocks()
	if len(blocks) == 0 {
		return nil
	}
	return blocks[0]
}
