package rules

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// EmployeeID identifies an employee card type.
type EmployeeID string

const (
	CEO EmployeeID = "ceo"

	KitchenTrainee EmployeeID = "kitchen_trainee"
	BurgerCook     EmployeeID = "burger_cook"
	PizzaCook      EmployeeID = "pizza_cook"
	BurgerChef     EmployeeID = "burger_chef"
	PizzaChef      EmployeeID = "pizza_chef"

	ErrandBoy     EmployeeID = "errand_boy"
	CartOperator  EmployeeID = "cart_operator"
	TruckDriver   EmployeeID = "truck_driver"
	ZeppelinPilot EmployeeID = "zeppelin_pilot"

	MarketingTrainee EmployeeID = "marketing_trainee"
	CampaignManager  EmployeeID = "campaign_manager"
	BrandManager     EmployeeID = "brand_manager"
	BrandDirector    EmployeeID = "brand_director"

	ManagementTrainee EmployeeID = "management_trainee"
	JuniorVP          EmployeeID = "junior_vp"
	SeniorVP          EmployeeID = "senior_vp"
	ExecutiveVP       EmployeeID = "executive_vp"

	PricingManager  EmployeeID = "pricing_manager"
	DiscountManager EmployeeID = "discount_manager"
	LuxuriesManager EmployeeID = "luxuries_manager"

	CFO             EmployeeID = "cfo"
	NewBusinessDev  EmployeeID = "new_business_dev"
	LocalManager    EmployeeID = "local_manager"
	RegionalManager EmployeeID = "regional_manager"

	RecruitingGirl    EmployeeID = "recruiting_girl"
	RecruitingManager EmployeeID = "recruiting_manager"
	HRDirector        EmployeeID = "hr_director"

	Trainer EmployeeID = "trainer"
	Coach   EmployeeID = "coach"
	Guru    EmployeeID = "guru"

	Waitress EmployeeID = "waitress"
)

// Category groups employee types for display.
type Category string

const (
	CategoryCEO        Category = "ceo"
	CategoryKitchen    Category = "kitchen"
	CategoryBuyer      Category = "buyer"
	CategoryMarketing  Category = "marketing"
	CategoryManagement Category = "management"
	CategoryPricing    Category = "pricing"
	CategorySpecial    Category = "special"
	CategoryRecruiting Category = "recruiting"
	CategoryTraining   Category = "training"
	CategoryWaitress   Category = "waitress"
)

// Employee describes an employee card type. Only the fields relevant to
// the card's action are set.
type Employee struct {
	ID          EmployeeID   `json:"id"`
	Name        string       `json:"name"`
	Category    Category     `json:"category"`
	EntryLevel  bool         `json:"entry_level"`
	Salary      int          `json:"salary"`
	Action      ActionType   `json:"action,omitempty"`
	Supply      int          `json:"supply"`
	TrainsTo    []EmployeeID `json:"trains_to,omitempty"`
	TopPosition bool         `json:"top_position,omitempty"`

	// Kitchen. A choice card produces one unit of a single product picked
	// from Produces; other cards produce everything in Produces.
	Produces      map[Product]int `json:"produces,omitempty"`
	ProduceChoice bool            `json:"produce_choice,omitempty"`

	// Buyers.
	DrinksPerSymbol int       `json:"drinks_per_symbol,omitempty"`
	Range           int       `json:"range,omitempty"`
	AnyDrink        bool      `json:"any_drink,omitempty"`
	Route           RouteType `json:"route,omitempty"`

	// Marketing.
	Campaigns   []CampaignType `json:"campaigns,omitempty"`
	MaxDuration int            `json:"max_duration,omitempty"`

	// Management.
	IsManager bool `json:"is_manager,omitempty"`
	Slots     int  `json:"slots,omitempty"`

	PriceModifier  int  `json:"price_modifier,omitempty"`
	EarningsBonus  bool `json:"earnings_bonus,omitempty"`
	DriveIn        bool `json:"drive_in,omitempty"`
	ImmediateOpen  bool `json:"immediate_open,omitempty"`
	Recruits       int  `json:"recruits,omitempty"`
	SalaryDiscount bool `json:"salary_discount,omitempty"`
	TrainActions   int  `json:"train_actions,omitempty"`
	Tips           int  `json:"tips,omitempty"`
}

// CanRun reports whether the marketeer may place campaigns of kind c.
func (e Employee) CanRun(c CampaignType) bool {
	for _, k := range e.Campaigns {
		if k == c {
			return true
		}
	}
	return false
}

// Employees is the employee table keyed by id.
var Employees = map[EmployeeID]Employee{
	CEO: {ID: CEO, Name: "CEO", Category: CategoryCEO},

	KitchenTrainee: {
		ID: KitchenTrainee, Name: "Kitchen Trainee", Category: CategoryKitchen, EntryLevel: true,
		Action: ActionProduce, Produces: map[Product]int{Burger: 1, Pizza: 1}, ProduceChoice: true,
		Supply: 12, TrainsTo: []EmployeeID{BurgerCook, PizzaCook},
	},
	BurgerCook: {
		ID: BurgerCook, Name: "Burger Cook", Category: CategoryKitchen, Salary: 5,
		Action: ActionProduce, Produces: map[Product]int{Burger: 3},
		Supply: 6, TrainsTo: []EmployeeID{BurgerChef},
	},
	PizzaCook: {
		ID: PizzaCook, Name: "Pizza Cook", Category: CategoryKitchen, Salary: 5,
		Action: ActionProduce, Produces: map[Product]int{Pizza: 3},
		Supply: 6, TrainsTo: []EmployeeID{PizzaChef},
	},
	BurgerChef: {
		ID: BurgerChef, Name: "Burger Chef", Category: CategoryKitchen, Salary: 5,
		Action: ActionProduce, Produces: map[Product]int{Burger: 8},
		Supply: 3, TopPosition: true,
	},
	PizzaChef: {
		ID: PizzaChef, Name: "Pizza Chef", Category: CategoryKitchen, Salary: 5,
		Action: ActionProduce, Produces: map[Product]int{Pizza: 8},
		Supply: 3, TopPosition: true,
	},

	ErrandBoy: {
		ID: ErrandBoy, Name: "Errand Boy", Category: CategoryBuyer, EntryLevel: true,
		Action: ActionBuyDrink, DrinksPerSymbol: 1, AnyDrink: true,
		Supply: 12, TrainsTo: []EmployeeID{CartOperator},
	},
	CartOperator: {
		ID: CartOperator, Name: "Cart Operator", Category: CategoryBuyer, Salary: 5,
		Action: ActionBuyDrink, DrinksPerSymbol: 2, Range: 2, Route: RouteRoad,
		Supply: 6, TrainsTo: []EmployeeID{TruckDriver},
	},
	TruckDriver: {
		ID: TruckDriver, Name: "Truck Driver", Category: CategoryBuyer, Salary: 5,
		Action: ActionBuyDrink, DrinksPerSymbol: 3, Range: 3, Route: RouteRoad,
		Supply: 6, TrainsTo: []EmployeeID{ZeppelinPilot},
	},
	ZeppelinPilot: {
		ID: ZeppelinPilot, Name: "Zeppelin Pilot", Category: CategoryBuyer, Salary: 5,
		Action: ActionBuyDrink, DrinksPerSymbol: 2, Range: 4, Route: RouteFly,
		Supply: 3, TopPosition: true,
	},

	MarketingTrainee: {
		ID: MarketingTrainee, Name: "Marketing Trainee", Category: CategoryMarketing, EntryLevel: true,
		Action: ActionCampaign, Campaigns: []CampaignType{Billboard}, Range: 2, MaxDuration: 2,
		Supply: 12, TrainsTo: []EmployeeID{CampaignManager},
	},
	CampaignManager: {
		ID: CampaignManager, Name: "Campaign Manager", Category: CategoryMarketing, Salary: 5,
		Action: ActionCampaign, Campaigns: []CampaignType{Billboard, Mailbox}, Range: 3, MaxDuration: 3,
		Supply: 6, TrainsTo: []EmployeeID{BrandManager},
	},
	BrandManager: {
		ID: BrandManager, Name: "Brand Manager", Category: CategoryMarketing, Salary: 5,
		Action: ActionCampaign, Campaigns: []CampaignType{Billboard, Mailbox, Airplane}, Range: 99, MaxDuration: 4,
		Supply: 6, TrainsTo: []EmployeeID{BrandDirector},
	},
	BrandDirector: {
		ID: BrandDirector, Name: "Brand Director", Category: CategoryMarketing, Salary: 5,
		Action: ActionCampaign, Campaigns: []CampaignType{Billboard, Mailbox, Airplane, Radio}, Range: 99, MaxDuration: 4,
		Supply: 3, TopPosition: true,
	},

	ManagementTrainee: {
		ID: ManagementTrainee, Name: "Mgmt Trainee", Category: CategoryManagement, EntryLevel: true,
		IsManager: true, Slots: 2,
		Supply:   12,
		TrainsTo: []EmployeeID{JuniorVP, PricingManager, DiscountManager, LuxuriesManager, CFO, NewBusinessDev, LocalManager},
	},
	JuniorVP: {
		ID: JuniorVP, Name: "Junior VP", Category: CategoryManagement, Salary: 5,
		IsManager: true, Slots: 3,
		Supply: 6, TrainsTo: []EmployeeID{SeniorVP, Coach},
	},
	SeniorVP: {
		ID: SeniorVP, Name: "Senior VP", Category: CategoryManagement, Salary: 5,
		IsManager: true, Slots: 5,
		Supply: 6, TrainsTo: []EmployeeID{ExecutiveVP},
	},
	ExecutiveVP: {
		ID: ExecutiveVP, Name: "Executive VP", Category: CategoryManagement, Salary: 5,
		IsManager: true, Slots: 10,
		Supply: 3, TopPosition: true,
	},

	PricingManager: {
		ID: PricingManager, Name: "Pricing Mgr", Category: CategoryPricing, Salary: 5,
		Action: ActionPricing, PriceModifier: -1, Supply: 6,
	},
	DiscountManager: {
		ID: DiscountManager, Name: "Discount Mgr", Category: CategoryPricing, Salary: 5,
		Action: ActionPricing, PriceModifier: -3, Supply: 6,
	},
	LuxuriesManager: {
		ID: LuxuriesManager, Name: "Luxuries Mgr", Category: CategoryPricing, Salary: 5,
		Action: ActionPricing, PriceModifier: 10, Supply: 6,
	},

	CFO: {
		ID: CFO, Name: "CFO", Category: CategorySpecial, Salary: 5,
		Action: ActionCFO, EarningsBonus: true, Supply: 3, TopPosition: true,
	},
	NewBusinessDev: {
		ID: NewBusinessDev, Name: "New Biz Dev", Category: CategorySpecial, Salary: 5,
		Action: ActionPlaceHouse, Supply: 6,
	},
	LocalManager: {
		ID: LocalManager, Name: "Local Mgr", Category: CategorySpecial, Salary: 5,
		Action: ActionPlaceRestaurant, Range: 3, DriveIn: true,
		Supply: 6, TrainsTo: []EmployeeID{RegionalManager},
	},
	RegionalManager: {
		ID: RegionalManager, Name: "Regional Mgr", Category: CategorySpecial, Salary: 5,
		Action: ActionPlaceRestaurant, Range: 99, DriveIn: true, ImmediateOpen: true,
		Supply: 3, TopPosition: true,
	},

	RecruitingGirl: {
		ID: RecruitingGirl, Name: "Recruiting Girl", Category: CategoryRecruiting, EntryLevel: true,
		Action: ActionRecruit, Recruits: 1,
		Supply: 12, TrainsTo: []EmployeeID{RecruitingManager},
	},
	RecruitingManager: {
		ID: RecruitingManager, Name: "Recruiting Mgr", Category: CategoryRecruiting, Salary: 5,
		Action: ActionRecruit, Recruits: 2, SalaryDiscount: true,
		Supply: 6, TrainsTo: []EmployeeID{HRDirector},
	},
	HRDirector: {
		ID: HRDirector, Name: "HR Director", Category: CategoryRecruiting, Salary: 5,
		Action: ActionRecruit, Recruits: 4, SalaryDiscount: true,
		Supply: 3, TopPosition: true,
	},

	Trainer: {
		ID: Trainer, Name: "Trainer", Category: CategoryTraining, EntryLevel: true,
		Action: ActionTrain, TrainActions: 1,
		Supply: 12, TrainsTo: []EmployeeID{Coach},
	},
	Coach: {
		ID: Coach, Name: "Coach", Category: CategoryTraining, Salary: 5,
		Action: ActionTrain, TrainActions: 2,
		Supply: 6, TrainsTo: []EmployeeID{Guru},
	},
	Guru: {
		ID: Guru, Name: "Guru", Category: CategoryTraining, Salary: 5,
		Action: ActionTrain, TrainActions: 3,
		Supply: 3, TopPosition: true,
	},

	Waitress: {
		ID: Waitress, Name: "Waitress", Category: CategoryWaitress, EntryLevel: true,
		Action: ActionWaitress, Tips: WaitressTip, Supply: 12,
	},
}

// Lookup returns the employee definition for id.
func Lookup(id EmployeeID) (Employee, bool) {
	e, ok := Employees[id]
	return e, ok
}

// EmployeeIDs returns every card type in stable (sorted) order, CEO excluded.
func EmployeeIDs() []EmployeeID {
	ids := make([]EmployeeID, 0, len(Employees))
	for id := range Employees {
		if id == CEO {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// EntryLevel returns the card types that can be hired directly.
func EntryLevel() []EmployeeID {
	var ids []EmployeeID
	for _, id := range EmployeeIDs() {
		if Employees[id].EntryLevel {
			ids = append(ids, id)
		}
	}
	return ids
}

// InitialSupply returns a fresh copy of the shared employee pool.
func InitialSupply() map[EmployeeID]int {
	supply := make(map[EmployeeID]int, len(Employees))
	for id, e := range Employees {
		if e.Supply > 0 {
			supply[id] = e.Supply
		}
	}
	return supply
}

// CanTrain reports whether a card of type from can be trained into type to
// by following one or more TrainsTo edges.
func CanTrain(from, to EmployeeID) bool {
	if from == to {
		return false
	}
	if _, ok := Employees[to]; !ok {
		return false
	}

	visited := mapset.New[EmployeeID]()
	pending := queue.New[EmployeeID]()
	pending.Enqueue(from)
	visited.Put(from)

	for !pending.Empty() {
		current := pending.Dequeue()
		for _, next := range Employees[current].TrainsTo {
			if next == to {
				return true
			}
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			pending.Enqueue(next)
		}
	}
	return false
}
