package rules

// Product is a sellable good. Burgers and pizzas are food, the rest are drinks.
type Product string

const (
	Burger   Product = "burger"
	Pizza    Product = "pizza"
	Beer     Product = "beer"
	Lemonade Product = "lemonade"
	Soda     Product = "soda"
)

// Products lists every product in the fixed order used for inventory scans.
var Products = []Product{Burger, Pizza, Beer, Lemonade, Soda}

// Foods and Drinks split Products by kind.
var (
	Foods  = []Product{Burger, Pizza}
	Drinks = []Product{Beer, Lemonade, Soda}
)

func (p Product) IsFood() bool {
	return p == Burger || p == Pizza
}

func (p Product) IsDrink() bool {
	return p == Beer || p == Lemonade || p == Soda
}

// Valid reports whether p is one of the known products.
func (p Product) Valid() bool {
	return p.IsFood() || p.IsDrink()
}

// CampaignType is the kind of a marketing campaign.
type CampaignType string

const (
	Billboard CampaignType = "billboard"
	Mailbox   CampaignType = "mailbox"
	Airplane  CampaignType = "airplane"
	Radio     CampaignType = "radio"
)

func (c CampaignType) Valid() bool {
	switch c {
	case Billboard, Mailbox, Airplane, Radio:
		return true
	}
	return false
}

// RouteType describes how a drink buyer travels to drink sources.
type RouteType string

const (
	RouteRoad RouteType = "road"
	RouteFly  RouteType = "fly"
)

// ActionType is the working-phase action an employee card performs.
type ActionType string

const (
	ActionNone            ActionType = ""
	ActionCEORecruit      ActionType = "ceo_recruit"
	ActionPlaceHouse      ActionType = "place_house"
	ActionPricing         ActionType = "pricing"
	ActionCFO             ActionType = "cfo"
	ActionRecruit         ActionType = "recruit"
	ActionTrain           ActionType = "train"
	ActionCampaign        ActionType = "campaign"
	ActionProduce         ActionType = "produce"
	ActionBuyDrink        ActionType = "buy_drink"
	ActionPlaceRestaurant ActionType = "place_restaurant"
	ActionWaitress        ActionType = "waitress"
)

// ActionOrder is the order in which structure cards act during Working.
var ActionOrder = []ActionType{
	ActionPlaceHouse,
	ActionPricing,
	ActionCFO,
	ActionRecruit,
	ActionTrain,
	ActionCampaign,
	ActionProduce,
	ActionBuyDrink,
	ActionPlaceRestaurant,
	ActionWaitress,
}

// Precedence returns the position of a in ActionOrder, or -1.
func (a ActionType) Precedence() int {
	for i, t := range ActionOrder {
		if t == a {
			return i
		}
	}
	return -1
}

// Numeric rules.
const (
	StartingCEOSlots       = 3
	BankPerPlayer          = 50
	IntroBankPerPlayer     = 75
	MaxRestaurants         = 3
	BasePrice              = 10
	MinPrice               = 1
	MaxDemand              = 3
	GardenMaxDemand        = 5
	FreezerCapacity        = 10
	WaitressTip            = 3
	FirstWaitressTip       = 5
	UnusedRecruitDiscount  = 5
	FirstTrainDiscount     = 15
	MarketedItemBonus      = 5
	CFOBonusPercent        = 50
	BigSalary              = 20
	SmallCashMilestone     = 20
	LargeCashMilestone     = 100
	FirstBillboardSlots    = 2
	FreeManagementTrainees = 2
	HireMilestoneCount     = 3
)

// ReserveSlots maps a reserve card amount to the CEO slot count it votes for.
var ReserveSlots = map[int]int{
	100: 2,
	200: 3,
	300: 4,
}

// PlayerNames are the company names of players in index order.
var PlayerNames = []string{"Red Corp", "Blue Inc", "Green Ltd", "Gold Co", "Purple LLC"}
