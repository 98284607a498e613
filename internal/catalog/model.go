package catalog

type Condition string

const (
	ConditionLikeNew  Condition = "Like New"
	ConditionGood     Condition = "Good"
	ConditionFair     Condition = "Fair"
	ConditionWellUsed Condition = "Well Used"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionLikeNew, ConditionGood, ConditionFair, ConditionWellUsed:
		return true
	}
	return false
}

type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityPending   Availability = "Pending"
	AvailabilitySold      Availability = "Sold"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityPending, AvailabilitySold:
		return true
	}
	return false
}

type Item struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Price        float64      `json:"price" yaml:"price"`
	Condition    Condition    `json:"condition" yaml:"condition"`
	Description  string       `json:"description" yaml:"description"`
	Category     string       `json:"category" yaml:"category"`
	ImageURL     string       `json:"imageUrl" yaml:"imageUrl"`
	SellerID     string       `json:"sellerId" yaml:"sellerId"`
	SellerName   string       `json:"sellerName" yaml:"sellerName"`
	Availability Availability `json:"availability" yaml:"availability"`
	LockerID     string       `json:"lockerId" yaml:"lockerId"`
}

type Locker struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Address  string  `json:"address" yaml:"address"`
	City     string  `json:"city" yaml:"city"`
	Hours    string  `json:"hours" yaml:"hours"`
	Distance *string `json:"distance,omitempty" yaml:"distance,omitempty"`
}

type ItemFilter struct {
	Category     *string
	Availability *Availability
}
