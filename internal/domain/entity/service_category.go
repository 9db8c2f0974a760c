package entity

import "fmt"

type ServiceCategory struct {
	ID          string `json:"id,omitempty" firestore:"-"`
	Name        string `json:"name" firestore:"name"`
	Description string `json:"description" firestore:"description"`
	IconName    string `json:"icon_name" firestore:"icon_name"`
}

func (c *ServiceCategory) SetID(id string) { c.ID = id }

func (c *ServiceCategory) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("service category %s: name is empty", c.ID)
	}
	return nil
}

// DefaultCategories is the reference data written by the init-database command.
func DefaultCategories() []*ServiceCategory {
	return []*ServiceCategory{
		{ID: "plumbing", Name: "Plumbing", Description: "Pipe repairs, leaks, fittings and drainage", IconName: "water"},
		{ID: "electrical", Name: "Electrical", Description: "Wiring, switches, fixtures and appliance installation", IconName: "flash"},
		{ID: "cleaning", Name: "Cleaning", Description: "Home, kitchen, bathroom and deep cleaning", IconName: "sparkles"},
		{ID: "carpentry", Name: "Carpentry", Description: "Furniture repair, doors, windows and woodwork", IconName: "hammer"},
		{ID: "painting", Name: "Painting", Description: "Interior and exterior wall painting", IconName: "color-palette"},
		{ID: "appliance-repair", Name: "Appliance Repair", Description: "Washing machine, refrigerator and microwave repair", IconName: "construct"},
		{ID: "ac-service", Name: "AC Service", Description: "Air conditioner installation, servicing and gas refill", IconName: "snow"},
		{ID: "pest-control", Name: "Pest Control", Description: "Termite, cockroach and general pest treatment", IconName: "bug"},
		{ID: "gardening", Name: "Gardening", Description: "Lawn care, planting and garden maintenance", IconName: "leaf"},
		{ID: "beauty", Name: "Beauty & Wellness", Description: "Salon and spa services at home", IconName: "cut"},
		{ID: "moving", Name: "Packers & Movers", Description: "Packing, loading and home shifting", IconName: "cube"},
	}
}
