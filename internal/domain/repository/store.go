package repository

// Store agrupa los repositorios atados a una misma unidad de trabajo (pool o tx).
type Store struct {
	Categories CategoryRepository
	Sections   SectionRepository
	MenuItems  MenuItemRepository
	Modifiers  ModifierRepository
	Variations VariationRepository
	Tables     TableRepository
	Roles      RoleRepository
	Users      UserRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
}
