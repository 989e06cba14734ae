package board

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/wricardo/mcp-training/foodchain/game/rules"
)

// testLayout is a 2x2 tile board:
//
//	houses #1 (0,0), #2 (4,1), #3 (6,8)
//	beer (0,5), lemonade (4,6), soda (8,6)
var testLayout = []string{
	"H.#..B....",
	"..#..#....",
	"##########",
	"..#....#..",
	".H#...L#..",
	"..#....#..",
	"..#....#H.",
	"..######..",
	"......S...",
	"..........",
}

func mustParse(t *testing.T, layout []string) *Map {
	t.Helper()
	m, err := Parse(layout)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return m
}

func pos(r, c int) Position {
	return Position{Row: r, Col: c}
}

func TestParse(t *testing.T) {
	m := mustParse(t, testLayout)

	if m.Rows != 10 || m.Cols != 10 || m.TileRows != 2 || m.TileCols != 2 {
		t.Fatalf("unexpected dimensions %dx%d (%dx%d tiles)", m.Rows, m.Cols, m.TileRows, m.TileCols)
	}
	if len(m.Houses) != 3 {
		t.Fatalf("expected 3 houses, got %d", len(m.Houses))
	}
	want := []Position{pos(0, 0), pos(4, 1), pos(6, 8)}
	for i, h := range m.Houses {
		if h.Number != i+1 || h.Position() != want[i] {
			t.Errorf("house %d = #%d at %v, want #%d at %v", i, h.Number, h.Position(), i+1, want[i])
		}
		if m.At(h.Position()) != rules.CellHouse {
			t.Errorf("house #%d cell is %v", h.Number, m.At(h.Position()))
		}
	}
	if m.String() != joinLines(testLayout) {
		t.Errorf("String() did not round trip:\n%s", m.String())
	}
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
	}{
		{"empty", nil},
		{"not tile sized", []string{"..", ".."}},
		{"ragged", append(append([]string{}, testLayout[:9]...), "...")},
		{"bad char", append(append([]string{}, testLayout[:9]...), "x.........")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.layout); !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestRoadDistance(t *testing.T) {
	m := mustParse(t, testLayout)

	tests := []struct {
		name     string
		from, to Position
		want     int
		ok       bool
	}{
		{"same cell", pos(4, 1), pos(4, 1), 0, true},
		{"house to road", pos(4, 1), pos(2, 5), 6, true},
		{"road to house destination", pos(2, 5), pos(6, 8), 7, true},
		{"adjacent non-road destination", pos(0, 0), pos(1, 0), 1, true},
		{"no road out of the start", pos(0, 0), pos(2, 0), 0, false},
		{"destination off the network", pos(2, 2), pos(9, 9), 0, false},
		{"out of bounds", pos(2, 2), pos(20, 20), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.RoadDistance(tt.from, tt.to)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("RoadDistance(%v, %v) = %d, %v; want %d, %v", tt.from, tt.to, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func drinkTypes(sources []DrinkSource) map[rules.Product]int {
	out := make(map[rules.Product]int)
	for _, s := range sources {
		out[s.Type]++
	}
	return out
}

func TestFindDrinkSourcesRoad(t *testing.T) {
	m := mustParse(t, testLayout)

	if got := m.FindDrinkSources(pos(2, 2), 4, rules.RouteRoad); len(got) != 0 {
		t.Errorf("range 4: expected nothing, got %v", got)
	}
	got := drinkTypes(m.FindDrinkSources(pos(2, 2), 5, rules.RouteRoad))
	if len(got) != 1 || got[rules.Beer] != 1 {
		t.Errorf("range 5: expected one beer, got %v", got)
	}
	got = drinkTypes(m.FindDrinkSources(pos(2, 2), 8, rules.RouteRoad))
	if len(got) != 2 || got[rules.Beer] != 1 || got[rules.Lemonade] != 1 {
		t.Errorf("range 8: expected beer and lemonade, got %v", got)
	}
	got = drinkTypes(m.FindDrinkSources(pos(2, 2), 10, rules.RouteRoad))
	if got[rules.Soda] != 1 {
		t.Errorf("range 10: expected soda, got %v", got)
	}
}

func TestFindDrinkSourcesFly(t *testing.T) {
	m := mustParse(t, testLayout)

	if got := m.FindDrinkSources(pos(2, 2), 0, rules.RouteFly); len(got) != 0 {
		t.Errorf("range 0 stays in the origin tile, got %v", got)
	}
	got := drinkTypes(m.FindDrinkSources(pos(2, 2), 1, rules.RouteFly))
	if len(got) != 2 || got[rules.Beer] != 1 || got[rules.Lemonade] != 1 {
		t.Errorf("range 1: expected beer and lemonade, got %v", got)
	}
	got = drinkTypes(m.FindDrinkSources(pos(2, 2), 2, rules.RouteFly))
	if len(got) != 3 {
		t.Errorf("range 2: expected all three sources, got %v", got)
	}
}

func TestFindHousesInRange(t *testing.T) {
	m := mustParse(t, testLayout)

	found := m.FindHousesInRange(pos(2, 2), 3)
	if len(found) != 1 || found[0].House.Number != 2 || found[0].Distance != 3 {
		t.Errorf("expected house #2 at distance 3, got %+v", found)
	}
	if found := m.FindHousesInRange(pos(2, 2), 2); len(found) != 0 {
		t.Errorf("expected no houses within 2, got %+v", found)
	}
}

func TestBlockAndTiles(t *testing.T) {
	m := mustParse(t, testLayout)

	block := m.Block(pos(0, 0))
	if len(block) != 4 {
		t.Errorf("expected a 4-cell block, got %v", block)
	}
	if m.Block(pos(2, 2)) != nil {
		t.Error("a road cell has no block")
	}
	if got := TileOf(7, 3); got != (TileIndex{TileRow: 1, TileCol: 0}) {
		t.Errorf("TileOf(7,3) = %v", got)
	}
}

func TestHousesInReach(t *testing.T) {
	m := mustParse(t, testLayout)

	tests := []struct {
		name     string
		campaign Campaign
		want     []int
	}{
		{"billboard", Campaign{Type: rules.Billboard, Row: 4, Col: 0}, []int{2}},
		{"mailbox", Campaign{Type: rules.Mailbox, Row: 0, Col: 1}, []int{1}},
		{"radio", Campaign{Type: rules.Radio, Row: 0, Col: 0}, []int{1, 2, 3}},
		{"airplane single row", Campaign{Type: rules.Airplane, Row: 4, Col: 9, Direction: DirectionRow, Size: 1}, []int{2}},
		{"airplane wide row", Campaign{Type: rules.Airplane, Row: 4, Col: 9, Direction: DirectionRow, Size: 5}, []int{2, 3}},
		{"airplane column", Campaign{Type: rules.Airplane, Row: 9, Col: 8, Direction: DirectionCol, Size: 1}, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.HousesInReach(&tt.campaign)
			if len(got) != len(tt.want) {
				t.Fatalf("reached %d houses, want %v", len(got), tt.want)
			}
			for i, h := range got {
				if h.Number != tt.want[i] {
					t.Errorf("house[%d] = #%d, want #%d", i, h.Number, tt.want[i])
				}
			}
		})
	}
}

func TestValidRestaurantPositions(t *testing.T) {
	m := mustParse(t, testLayout)

	p, ok := m.RestaurantPositionAt(0, 3)
	if !ok {
		t.Fatal("expected (0,3) to be a valid footprint")
	}
	want := []Entrance{
		{Row: 0, Col: 3, RoadRow: 0, RoadCol: 2},
		{Row: 1, Col: 3, RoadRow: 2, RoadCol: 3},
		{Row: 1, Col: 4, RoadRow: 2, RoadCol: 4},
	}
	if len(p.Entrances) != len(want) {
		t.Fatalf("entrances = %+v, want %+v", p.Entrances, want)
	}
	for i := range want {
		if p.Entrances[i] != want[i] {
			t.Errorf("entrance %d = %+v, want %+v", i, p.Entrances[i], want[i])
		}
	}
	if _, ok := p.Entrance(Corner{DR: 0, DC: 1}); ok {
		t.Error("corner (0,1) has no road")
	}

	all := m.ValidRestaurantPositions()
	found := false
	for _, vp := range all {
		if vp.Row == 0 && vp.Col == 3 {
			found = true
		}
		if len(vp.Entrances) == 0 {
			t.Errorf("position %d,%d listed without entrances", vp.Row, vp.Col)
		}
	}
	if !found {
		t.Error("ValidRestaurantPositions() is missing (0,3)")
	}

	m.AddRestaurant(&Restaurant{Owner: 0, Row: 0, Col: 3, Entrance: Position{0, 3}, RoadAccess: Position{0, 2}, Open: true})
	if _, ok := m.RestaurantPositionAt(0, 3); ok {
		t.Error("occupied footprint must be rejected")
	}
	if _, ok := m.RestaurantPositionAt(0, 4); ok {
		t.Error("overlapping footprint must be rejected")
	}
	if m.At(pos(1, 4)) != rules.RestaurantCell(0) {
		t.Error("footprint cells must carry the owner marker")
	}

	m.Campaigns = append(m.Campaigns, &Campaign{ID: 1, Type: rules.Billboard, Row: 3, Col: 4})
	if _, ok := m.RestaurantPositionAt(3, 3); ok {
		t.Error("footprint over a campaign must be rejected")
	}
}

func TestDriveInEntrances(t *testing.T) {
	m := mustParse(t, testLayout)
	rest := &Restaurant{Owner: 1, Row: 3, Col: 3, Entrance: Position{3, 3}, RoadAccess: Position{2, 3}}
	m.AddRestaurant(rest)

	got := m.DriveInEntrances(rest)
	want := []Entrance{
		{Row: 3, Col: 3, RoadRow: 2, RoadCol: 3},
		{Row: 3, Col: 4, RoadRow: 2, RoadCol: 4},
		{Row: 4, Col: 3, RoadRow: 4, RoadCol: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("DriveInEntrances() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entrance %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPlacementSites(t *testing.T) {
	m := mustParse(t, testLayout)

	site, ok := m.HouseSite()
	if !ok || site != pos(0, 1) {
		t.Errorf("HouseSite() = %v, %v; want (0,1)", site, ok)
	}
	h := m.AddHouse(site, true)
	if h.Number != 4 || !h.Garden || h.MaxDemand() != rules.GardenMaxDemand {
		t.Errorf("unexpected new house %+v", h)
	}

	if g := m.GardenCandidate(); g == nil || g.Number != 1 {
		t.Errorf("GardenCandidate() = %+v, want house #1", g)
	}

}

func TestCampaignSites(t *testing.T) {
	m := mustParse(t, testLayout)
	origins := []Position{pos(2, 2)}

	best, ok := m.BestCampaignSite(origins, 1, rules.Billboard)
	if !ok || best != pos(3, 1) {
		t.Errorf("BestCampaignSite() = %v, %v; want (3,1)", best, ok)
	}
	if best, ok := m.BestCampaignSite(origins, 1, rules.Mailbox); !ok || best != pos(1, 1) {
		t.Errorf("mailbox site = %v, %v; want first road-side cell (1,1)", best, ok)
	}
	if !m.CampaignSiteValid(pos(3, 1), origins, 1) {
		t.Error("(3,1) should be a valid site")
	}
	if m.CampaignSiteValid(pos(9, 9), origins, 99) {
		t.Error("(9,9) is not next to a road")
	}
	if m.CampaignSiteValid(pos(2, 3), origins, 99) {
		t.Error("road cells cannot hold a campaign")
	}
}

func TestRotate(t *testing.T) {
	templates, err := rules.TileTemplates()
	if err != nil {
		t.Fatal(err)
	}
	grid, err := templates[0].Grid()
	if err != nil {
		t.Fatal(err)
	}

	turned, houses := rotate(grid, templates[0].Houses(), 1)
	if houses[0] != (rules.TilePoint{R: 4, C: 3}) {
		t.Errorf("rotated house = %v, want (4,3)", houses[0])
	}
	for _, h := range houses {
		if turned[h.R][h.C] != rules.CellHouse {
			t.Errorf("rotated house point %v is not a house cell", h)
		}
	}

	full, fullHouses := rotate(grid, templates[0].Houses(), 4)
	for r := range grid {
		for c := range grid[r] {
			if full[r][c] != grid[r][c] {
				t.Fatalf("four quarter turns must be the identity")
			}
		}
	}
	if fullHouses[0] != templates[0].Houses()[0] {
		t.Error("four quarter turns must restore house points")
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	for players, size := range rules.GridConfigs {
		for seed := int64(1); seed <= 25; seed++ {
			m, err := NewGenerator(rand.New(rand.NewSource(seed))).Generate(ctx, players)
			if err != nil {
				t.Fatalf("Generate(%d) seed %d: %v", players, seed, err)
			}
			if m.Rows != size.Rows*rules.TileSize || m.Cols != size.Cols*rules.TileSize {
				t.Fatalf("players %d: unexpected size %dx%d", players, m.Rows, m.Cols)
			}
			for i, h := range m.Houses {
				if h.Number != i+1 {
					t.Fatalf("players %d seed %d: house %d numbered %d", players, seed, i, h.Number)
				}
				if m.At(h.Position()) != rules.CellHouse {
					t.Fatalf("players %d seed %d: house #%d overwritten", players, seed, h.Number)
				}
			}
			if components := m.RoadComponents(); len(components) != 1 {
				t.Fatalf("players %d seed %d: %d road components\n%s", players, seed, len(components), m)
			}
			if len(m.Restaurants) != 0 || len(m.Campaigns) != 0 {
				t.Fatal("a fresh map has no restaurants or campaigns")
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewGenerator(rand.New(rand.NewSource(7))).Generate(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGenerator(rand.New(rand.NewSource(7))).Generate(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("the same seed must produce the same board")
	}
}

func TestGenerateUnsupported(t *testing.T) {
	_, err := NewGenerator(rand.New(rand.NewSource(1))).Generate(context.Background(), 6)
	if !errors.Is(err, ErrUnsupportedPlayerCount) {
		t.Errorf("expected ErrUnsupportedPlayerCount, got %v", err)
	}
}

func TestStitchRoads(t *testing.T) {
	m := mustParse(t, []string{
		"##...",
		".....",
		".....",
		".....",
		"...##",
	})
	if len(m.RoadComponents()) != 2 {
		t.Fatal("expected two components before stitching")
	}
	paved := m.stitchRoads()
	if paved == 0 || len(m.RoadComponents()) != 1 {
		t.Errorf("stitchRoads paved %d cells, components now %d", paved, len(m.RoadComponents()))
	}
}
