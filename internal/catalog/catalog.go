// Package catalog holds the fixed tyre catalog and its closed category and brand sets.
package catalog

import "tyrezone/internal/models"

// CategoryInfo describes one entry of the category enumeration.
type CategoryInfo struct {
	ID          models.Category `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

// Categories returns the category enumeration in display order.
func Categories() []CategoryInfo {
	return []CategoryInfo{
		{ID: models.CategoryAllSeason, Name: "All-Season", Description: "Year-round performance"},
		{ID: models.CategorySummer, Name: "Summer", Description: "Optimal warm weather grip"},
		{ID: models.CategoryWinter, Name: "Winter", Description: "Ice and snow traction"},
		{ID: models.CategoryOffRoad, Name: "Off-Road", Description: "Adventure ready"},
		{ID: models.CategoryPerformance, Name: "Performance", Description: "Maximum grip and speed"},
	}
}

// Brands returns the brand enumeration.
func Brands() []string {
	return []string{"TyreMax", "RoadKing", "Nordic Tyres", "SilentDrive", "HeavyHaul", "TrackMaster", "WildTrail"}
}

func price(v float64) *float64 { return &v }

// Tyres returns a fresh copy of the catalog in featured order.
func Tyres() []models.Product {
	tyres := []models.Product{
		{
			ID: "1", Name: "RoadMaster Pro AS", Brand: "TyreMax",
			Price: 149.99, OriginalPrice: price(179.99), Image: "/assets/tyre-1.jpg",
			Category: models.CategoryAllSeason, Size: "225/45R17",
			Width: 225, AspectRatio: 45, RimDiameter: 17, LoadIndex: 94, SpeedRating: "V",
			StockQuantity: 24, Rating: 4.8, ReviewCount: 342,
			Features:    []string{"All-Weather Compound", "Low Rolling Resistance", "Enhanced Wet Grip", "60,000 Mile Warranty"},
			Description: "The RoadMaster Pro AS delivers exceptional year-round performance with advanced silica compound technology. Engineered for sedans and coupes, it provides outstanding wet and dry traction while maintaining fuel efficiency.",
			VehicleType: models.VehicleSedan,
		},
		{
			ID: "2", Name: "TerrainForce AT", Brand: "RoadKing",
			Price: 219.99, Image: "/assets/tyre-2.jpg",
			Category: models.CategoryOffRoad, Size: "265/70R17",
			Width: 265, AspectRatio: 70, RimDiameter: 17, LoadIndex: 115, SpeedRating: "T",
			StockQuantity: 16, Rating: 4.7, ReviewCount: 218,
			Features:    []string{"Aggressive Tread Pattern", "Reinforced Sidewalls", "Stone Ejectors", "Mud & Snow Rated"},
			Description: "Built for adventure, the TerrainForce AT conquers any terrain with confidence. Its aggressive tread design provides exceptional off-road capability while maintaining comfortable highway performance.",
			VehicleType: models.VehicleSUV,
		},
		{
			ID: "3", Name: "IceGrip Pro Winter", Brand: "Nordic Tyres",
			Price: 189.99, OriginalPrice: price(209.99), Image: "/assets/tyre-3.jpg",
			Category: models.CategoryWinter, Size: "205/55R16",
			Width: 205, AspectRatio: 55, RimDiameter: 16, LoadIndex: 91, SpeedRating: "H",
			StockQuantity: 32, Rating: 4.9, ReviewCount: 156,
			Features:    []string{"3D Sipes Technology", "Ice Traction Compound", "Snowflake Certified", "Quiet Ride"},
			Description: "Experience unmatched winter performance with the IceGrip Pro. Featuring advanced 3D sipe technology and a specialized winter compound, it delivers superior traction on ice and snow.",
			VehicleType: models.VehicleSedan,
		},
		{
			ID: "4", Name: "SpeedMax Ultra", Brand: "TyreMax",
			Price: 279.99, Image: "/assets/tyre-4.jpg",
			Category: models.CategoryPerformance, Size: "245/40R18",
			Width: 245, AspectRatio: 40, RimDiameter: 18, LoadIndex: 97, SpeedRating: "Y",
			StockQuantity: 12, Rating: 4.6, ReviewCount: 89,
			Features:    []string{"High-Speed Stability", "Track-Ready Compound", "Enhanced Cornering", "Reinforced Construction"},
			Description: "Designed for driving enthusiasts, the SpeedMax Ultra delivers exhilarating performance with maximum grip. Perfect for sports cars and high-performance sedans.",
			VehicleType: models.VehicleSports,
		},
		{
			ID: "5", Name: "ComfortRide Touring", Brand: "SilentDrive",
			Price: 129.99, Image: "/assets/tyre-1.jpg",
			Category: models.CategoryAllSeason, Size: "215/60R16",
			Width: 215, AspectRatio: 60, RimDiameter: 16, LoadIndex: 95, SpeedRating: "H",
			StockQuantity: 48, Rating: 4.5, ReviewCount: 412,
			Features:    []string{"Noise Reduction Technology", "Comfort Optimized", "Long Tread Life", "Fuel Efficient"},
			Description: "The ComfortRide Touring prioritizes a smooth, quiet ride without compromising performance. Ideal for daily commuters seeking comfort and reliability.",
			VehicleType: models.VehicleSedan,
		},
		{
			ID: "6", Name: "TruckForce HT", Brand: "HeavyHaul",
			Price: 259.99, Image: "/assets/tyre-2.jpg",
			Category: models.CategoryAllSeason, Size: "275/65R18",
			Width: 275, AspectRatio: 65, RimDiameter: 18, LoadIndex: 123, SpeedRating: "T",
			StockQuantity: 0, Rating: 4.7, ReviewCount: 167,
			Features:    []string{"Heavy Load Capacity", "Durable Construction", "Highway Optimized", "Towing Ready"},
			Description: "Engineered for trucks and heavy-duty vehicles, the TruckForce HT handles heavy loads with ease while providing stable highway performance.",
			VehicleType: models.VehicleTruck,
		},
		{
			ID: "7", Name: "SummerSport SS", Brand: "TrackMaster",
			Price: 199.99, OriginalPrice: price(229.99), Image: "/assets/tyre-4.jpg",
			Category: models.CategorySummer, Size: "235/45R18",
			Width: 235, AspectRatio: 45, RimDiameter: 18, LoadIndex: 94, SpeedRating: "W",
			StockQuantity: 20, Rating: 4.8, ReviewCount: 203,
			Features:    []string{"Summer Compound", "Precision Handling", "Short Braking Distance", "Sport Tuned"},
			Description: "Maximize your summer driving experience with the SummerSport SS. Optimized for warm weather, it delivers exceptional dry and wet grip.",
			VehicleType: models.VehicleSports,
		},
		{
			ID: "8", Name: "ExplorerMax MT", Brand: "WildTrail",
			Price: 289.99, Image: "/assets/tyre-2.jpg",
			Category: models.CategoryOffRoad, Size: "285/75R16",
			Width: 285, AspectRatio: 75, RimDiameter: 16, LoadIndex: 126, SpeedRating: "Q",
			StockQuantity: 8, Rating: 4.9, ReviewCount: 94,
			Features:    []string{"Extreme Off-Road", "Self-Cleaning Tread", "Rock Crawling Ready", "Puncture Resistant"},
			Description: "For serious off-roaders, the ExplorerMax MT is the ultimate mud-terrain tyre. Conquer rocks, mud, and sand with confidence.",
			VehicleType: models.VehicleTruck,
		},
	}

	for i := range tyres {
		tyres[i].Position = i
		tyres[i].Normalize()
	}
	return tyres
}
