package catalog

// TypeEntry: запись каталога типов.
type TypeEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category: категория сервиса.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Root: компонент или сервис. Поля URI/CategoryID/Logo/APISource есть только у сервисов.
type Root struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	URI         *string `json:"uri,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	APISource   string  `json:"api_source,omitempty"`
}

// Mid: функция компонента или точка сервиса.
type Mid struct {
	ID          int64   `json:"id"`
	RootID      int64   `json:"root_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Leaf: параметр. Наружу уходит только имя типа, id типа скрыт.
type Leaf struct {
	ID                  int64   `json:"id"`
	MidID               int64   `json:"-"`
	Name                string  `json:"name"`
	Description         *string `json:"description"`
	TypeID              int64   `json:"-"`
	Type                string  `json:"type"`
	PositionInSignature *int    `json:"position_in_signature"`
	IsMultipleValues    bool    `json:"is_multiple_values"`
	IsReturnValue       bool    `json:"is_return_value"`
	DefaultValue        *string `json:"default"`
	Path                *string `json:"path"`
	Required            *bool   `json:"required,omitempty"`
}

// MidAggregate: mid со всеми его параметрами.
type MidAggregate struct {
	Mid
	Parameters []Leaf `json:"parameters"`
}

// RootAggregate: полностью собранный root.
type RootAggregate struct {
	Root Root           `json:"root"`
	Mids []MidAggregate `json:"mids"`
}

// ===== входные данные =====

// RootInput: создание/обновление root. Logo выставляет HTTP-слой после записи в blob store.
type RootInput struct {
	Name        string  `json:"name" form:"name" validate:"required,max=255"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=4000"`
	URI         *string `json:"uri" form:"uri" validate:"omitempty,max=2048"`
	CategoryID  *int64  `json:"category_id" form:"categoryId" validate:"omitempty,gt=0"`
	Logo        *string `json:"-" form:"-"`
}

// LeafInput: параметр в пакете. С ID обновляется, без ID вставляется.
type LeafInput struct {
	ID                  *int64  `json:"id" validate:"omitempty,gt=0"`
	Name                string  `json:"name" validate:"required,max=255"`
	Description         *string `json:"description"`
	Type                string  `json:"type" validate:"required,max=64"`
	PositionInSignature *int    `json:"position_in_signature" validate:"omitempty,gte=0"`
	IsMultipleValues    bool    `json:"is_multiple_values"`
	IsReturnValue       bool    `json:"is_return_value"`
	DefaultValue        *string `json:"default"`
	Path                *string `json:"path"`
	Required            bool    `json:"required"`
}

// MidInput: mid вместе с полным набором параметров.
type MidInput struct {
	Name        string      `json:"name" validate:"required,max=2048"`
	Description *string     `json:"description"`
	Parameters  []LeafInput `json:"parameters" validate:"required,dive"`
}

func (in LeafInput) toLeaf(midID, typeID int64) Leaf {
	l := Leaf{
		MidID:               midID,
		Name:                in.Name,
		Description:         in.Description,
		TypeID:              typeID,
		Type:                in.Type,
		PositionInSignature: in.PositionInSignature,
		IsMultipleValues:    in.IsMultipleValues,
		IsReturnValue:       in.IsReturnValue,
		DefaultValue:        in.DefaultValue,
		Path:                in.Path,
	}
	if in.ID != nil {
		l.ID = *in.ID
	}
	req := in.Required
	l.Required = &req
	return l
}
