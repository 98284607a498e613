package cart

import (
	"fmt"

	"bumpbox-be/internal/catalog"
)

// Command is a cart mutation. Commands are applied with Cart.Apply so the
// cart can be driven as a reducer.
type Command interface {
	apply(c *Cart)
	name() string
}

type AddItem struct {
	Item catalog.Item
}

type UpdateQuantity struct {
	ID       string
	Quantity int
}

type RemoveItem struct {
	ID string
}

type Clear struct{}

func (cmd AddItem) apply(c *Cart)        { c.AddItem(cmd.Item) }
func (cmd UpdateQuantity) apply(c *Cart) { c.UpdateQuantity(cmd.ID, cmd.Quantity) }
func (cmd RemoveItem) apply(c *Cart)     { c.RemoveItem(cmd.ID) }
func (Clear) apply(c *Cart)              { c.Clear() }

func (AddItem) name() string        { return "AddItem" }
func (UpdateQuantity) name() string { return "UpdateQuantity" }
func (RemoveItem) name() string     { return "RemoveItem" }
func (Clear) name() string          { return "Clear" }

// Apply executes cmd against the cart.
func (c *Cart) Apply(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil", ErrUnknownCommand)
	}
	cmd.apply(c)
	return nil
}

// CommandName returns the command's name for logging.
func CommandName(cmd Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.name()
}
