package staff

import (
	"fmt"
	"log/slog"
	"sort"

	"bakehouse/internal/bakery"
	"bakehouse/internal/models"
)

// Roster manages the staff collection. Roles are unique across the
// roster; shifts are free-form text.
type Roster struct {
	state *bakery.State
	log   *slog.Logger
}

// NewRoster creates a roster over the given state.
func NewRoster(state *bakery.State) *Roster {
	return &Roster{state: state, log: slog.Default().With("component", "staff")}
}

// Add creates a staff member. Adding a second member with an already
// assigned role fails.
func (r *Roster) Add(name, role, shift string) (*models.Staff, error) {
	for _, existing := range r.state.Staff {
		if existing.Role == role {
			return nil, fmt.Errorf("%w: role %q is already assigned to %s", models.ErrValidation, role, existing.Name)
		}
	}
	member, err := models.NewStaff(name, role, shift)
	if err != nil {
		return nil, err
	}
	r.state.Staff[member.ID] = member
	r.log.Info("staff added", "id", member.ID, "name", member.Name, "role", member.Role)
	return member, nil
}

// Remove deletes a staff member by id.
func (r *Roster) Remove(id string) error {
	member, ok := r.state.Staff[id]
	if !ok {
		return fmt.Errorf("%w: staff %q", models.ErrNotFound, id)
	}
	delete(r.state.Staff, id)
	r.log.Info("staff removed", "id", id, "name", member.Name)
	return nil
}

// Get returns a staff member by id.
func (r *Roster) Get(id string) (*models.Staff, error) {
	member, ok := r.state.Staff[id]
	if !ok {
		return nil, fmt.Errorf("%w: staff %q", models.ErrNotFound, id)
	}
	return member, nil
}

// List returns all staff sorted by name.
func (r *Roster) List() []*models.Staff {
	out := make([]*models.Staff, 0, len(r.state.Staff))
	for _, member := range r.state.Staff {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
