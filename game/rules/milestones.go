package rules

// MilestoneID identifies a milestone.
type MilestoneID string

// Trigger is the game event that awards a milestone to the first player
// who causes it.
type Trigger string

const (
	FirstBillboard      MilestoneID = "first_billboard"
	FirstTrain          MilestoneID = "first_train"
	FirstHire3          MilestoneID = "first_hire_3"
	FirstBurgerMarketed MilestoneID = "first_burger_marketed"
	FirstPizzaMarketed  MilestoneID = "first_pizza_marketed"
	FirstDrinkMarketed  MilestoneID = "first_drink_marketed"
	FirstErrandBoy      MilestoneID = "first_errand_boy"
	FirstBurgerProduced MilestoneID = "first_burger_produced"
	FirstPizzaProduced  MilestoneID = "first_pizza_produced"
	First20Cash         MilestoneID = "first_20_cash"
	FirstWaitress       MilestoneID = "first_waitress"
	FirstThrowFood      MilestoneID = "first_throw_food"
	FirstThrowDrink     MilestoneID = "first_throw_drink"
	FirstLowerPrices    MilestoneID = "first_lower_prices"
	FirstCartOperator   MilestoneID = "first_cart_operator"
	FirstAirplane       MilestoneID = "first_airplane"
	FirstRadio          MilestoneID = "first_radio"
	First100Cash        MilestoneID = "first_100_cash"
	First20Salary       MilestoneID = "first_20_salary"
)

const (
	TriggerPlaceBillboard   Trigger = "place_billboard"
	TriggerTrainEmployee    Trigger = "train_employee"
	TriggerHire3InTurn      Trigger = "hire_3_in_turn"
	TriggerMarketBurger     Trigger = "market_burger"
	TriggerMarketPizza      Trigger = "market_pizza"
	TriggerMarketDrink      Trigger = "market_drink"
	TriggerPlayErrandBoy    Trigger = "play_errand_boy"
	TriggerProduceBurger    Trigger = "produce_burger"
	TriggerProducePizza     Trigger = "produce_pizza"
	TriggerHave20           Trigger = "have_20"
	TriggerPlayWaitress     Trigger = "play_waitress"
	TriggerThrowFood        Trigger = "throw_food"
	TriggerThrowDrink       Trigger = "throw_drink"
	TriggerPlayPricing      Trigger = "play_pricing"
	TriggerPlayCartOperator Trigger = "play_cart_operator"
	TriggerPlaceAirplane    Trigger = "place_airplane"
	TriggerPlaceRadio       Trigger = "place_radio"
	TriggerHave100          Trigger = "have_100"
	TriggerPay20Salary      Trigger = "pay_20_salary"
)

// Milestone is a one-time award.
type Milestone struct {
	ID      MilestoneID `json:"id"`
	Name    string      `json:"name"`
	Trigger Trigger     `json:"trigger"`
	Effect  string      `json:"effect"`
}

// Milestones lists every milestone in table order.
var Milestones = []Milestone{
	{FirstBillboard, "First Billboard", TriggerPlaceBillboard, "Your campaigns are permanent. +2 open slots for turn order."},
	{FirstTrain, "First to Train", TriggerTrainEmployee, "-$15 salary discount per round."},
	{FirstHire3, "First to Hire 3", TriggerHire3InTurn, "Receive 2 free Management Trainees."},
	{FirstBurgerMarketed, "First Burger Marketed", TriggerMarketBurger, "+$5 per burger sold."},
	{FirstPizzaMarketed, "First Pizza Marketed", TriggerMarketPizza, "+$5 per pizza sold."},
	{FirstDrinkMarketed, "First Drink Marketed", TriggerMarketDrink, "+$5 per drink sold."},
	{FirstErrandBoy, "First Errand Boy", TriggerPlayErrandBoy, "+1 drink per source for all buyers."},
	{FirstBurgerProduced, "First Burger Produced", TriggerProduceBurger, "Free Burger Cook."},
	{FirstPizzaProduced, "First Pizza Produced", TriggerProducePizza, "Free Pizza Cook."},
	{First20Cash, "First to Have $20", TriggerHave20, "May view all reserve cards."},
	{FirstWaitress, "First Waitress", TriggerPlayWaitress, "Waitresses earn $5 instead of $3."},
	{FirstThrowFood, "First Throw Food", TriggerThrowFood, "Freezer: store up to 10 items."},
	{FirstThrowDrink, "First Throw Drink", TriggerThrowDrink, "Freezer: store up to 10 items."},
	{FirstLowerPrices, "First to Lower Prices", TriggerPlayPricing, "Permanent -$1 unit price."},
	{FirstCartOperator, "First Cart Operator", TriggerPlayCartOperator, "+1 range for all advanced buyers."},
	{FirstAirplane, "First Airplane", TriggerPlaceAirplane, "Recognition for the first airplane campaign."},
	{FirstRadio, "First Radio", TriggerPlaceRadio, "Radio places 2 demand tokens per house."},
	{First100Cash, "First to Have $100", TriggerHave100, "CEO gains CFO ability (+50%)."},
	{First20Salary, "First $20 Salary", TriggerPay20Salary, "May combine trainers on same employee."},
}

// PlaceTrigger returns the trigger fired by placing a campaign of kind c.
func PlaceTrigger(c CampaignType) Trigger {
	return Trigger("place_" + string(c))
}

// MarketTrigger returns the trigger fired by advertising product p.
func MarketTrigger(p Product) Trigger {
	if p.IsDrink() {
		return TriggerMarketDrink
	}
	return Trigger("market_" + string(p))
}

// ProduceTrigger returns the trigger fired by producing food p.
func ProduceTrigger(p Product) Trigger {
	return Trigger("produce_" + string(p))
}
