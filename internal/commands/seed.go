package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/db"
	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/services"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all listings with the sample data set",
		Long:  `Deletes every listing and review, then inserts the sample listings owned by the given user. The owner must already have signed up.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			mongoClient, mongoDb, err := db.ConnectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.DisconnectDB(mongoClient); err != nil {
					log.Printf("Error disconnecting from MongoDB: %v", err)
				}
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			count, err := seedListings(ctx, mongoDb, owner, cfg.PlaceholderImageURL)
			if err != nil {
				return err
			}
			fmt.Printf("Database initialized with %d sample listings owned by %s\n", count, owner)
			return nil
		},
	}

	cmd.Flags().StringP("owner", "o", "", "Username that will own the sample listings")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

type sampleListing struct {
	title       string
	description string
	price       float64
	location    string
	country     string
	category    string
	lat, lng    float64
}

var sampleListings = []sampleListing{
	{"Cozy Beachfront Cottage", "Escape to this charming beachfront cottage for a relaxing getaway. Enjoy stunning ocean views and easy access to the beach.", 1500, "Malibu", "United States", "Trending", 34.0259, -118.7798},
	{"Modern Loft in Downtown", "Stay in the heart of the city in this stylish loft apartment. Perfect for urban explorers!", 1200, "New York City", "United States", "Iconic Cities", 40.7128, -74.0060},
	{"Mountain Retreat", "Unplug and unwind in this peaceful mountain cabin. Surrounded by nature, it's a perfect place to recharge.", 1000, "Aspen", "United States", "Mountains", 39.1911, -106.8175},
	{"Historic Villa in Tuscany", "Experience the charm of Tuscany in this beautifully restored villa. Explore the rolling hills and vineyards.", 2500, "Florence", "Italy", "Castles", 43.7696, 11.2558},
	{"Secluded Treehouse Getaway", "Live among the treetops in this unique treehouse retreat. A true nature lover's paradise.", 800, "Portland", "United States", "Camping", 45.5152, -122.6784},
	{"Beachfront Paradise", "Step out of your door onto the sandy beach. This beachfront condo offers the ultimate relaxation.", 2000, "Cancun", "Mexico", "Amazing Pools", 21.1619, -86.8515},
	{"Rustic Cabin by the Lake", "Spend your days fishing and kayaking on the serene lake. This cozy cabin is perfect for outdoor enthusiasts.", 900, "Lake Tahoe", "United States", "Camping", 39.0968, -120.0324},
	{"Luxury Penthouse with City Views", "Indulge in luxury living with panoramic city views from this stunning penthouse apartment.", 3500, "Los Angeles", "United States", "Iconic Cities", 34.0522, -118.2437},
	{"Ski-In/Ski-Out Chalet", "Hit the slopes right from your doorstep in this ski-in/ski-out chalet in the Swiss Alps.", 3000, "Verbier", "Switzerland", "Mountains", 46.0961, 7.2286},
	{"Safari Lodge in the Serengeti", "Experience the thrill of the wild in a comfortable safari lodge. Witness the Great Migration up close.", 4000, "Serengeti National Park", "Tanzania", "Farms", -2.3333, 34.8333},
	{"Historic Canal House", "Stay in a piece of history in this beautifully preserved canal house in Amsterdam's iconic district.", 1800, "Amsterdam", "Netherlands", "Boats", 52.3676, 4.9041},
	{"Private Island Retreat", "Have an entire island to yourself for a truly exclusive and unforgettable vacation experience.", 10000, "Fiji", "Fiji", "Trending", -17.7134, 178.0650},
	{"Charming Cottage in the Cotswolds", "Escape to the picturesque Cotswolds in this quaint and charming cottage with a thatched roof.", 1200, "Cotswolds", "United Kingdom", "Farms", 51.8330, -1.8433},
	{"Historic Brownstone in Boston", "Step back in time in this elegant historic brownstone located in the heart of Boston.", 2200, "Boston", "United States", "Iconic Cities", 42.3601, -71.0589},
	{"Beachfront Bungalow in Bali", "Relax on the sandy shores of Bali in this beautiful beachfront bungalow with a private pool.", 1800, "Bali", "Indonesia", "Amazing Pools", -8.3405, 115.0920},
	{"Mountain View Cabin in Banff", "Enjoy breathtaking mountain views from this cozy cabin in the Canadian Rockies.", 1500, "Banff", "Canada", "Mountains", 51.1784, -115.5708},
	{"Art Deco Apartment in Miami", "Step into the glamour of the 1920s in this stylish Art Deco apartment in South Beach.", 1600, "Miami", "United States", "Rooms", 25.7617, -80.1918},
	{"Tropical Villa in Phuket", "Escape to a tropical paradise in this luxurious villa with a private infinity pool in Phuket.", 3000, "Phuket", "Thailand", "Amazing Pools", 7.8804, 98.3923},
	{"Historic Castle in Scotland", "Live like royalty in this historic castle in the Scottish Highlands. Explore the rugged beauty of the area.", 4000, "Scottish Highlands", "United Kingdom", "Castles", 57.1200, -4.7100},
	{"Desert Oasis in Dubai", "Experience luxury in the middle of the desert in this opulent oasis in Dubai with a private pool.", 5000, "Dubai", "United Arab Emirates", "Domes", 25.2048, 55.2708},
	{"Rustic Log Cabin in Montana", "Unplug and unwind in this cozy log cabin surrounded by the natural beauty of Montana.", 1100, "Montana", "United States", "Camping", 46.8797, -110.3626},
	{"Beachfront Villa in Greece", "Enjoy the crystal-clear waters of the Mediterranean in this beautiful beachfront villa on a Greek island.", 2500, "Mykonos", "Greece", "Trending", 37.4467, 25.3289},
	{"Eco-Friendly Treehouse Retreat", "Stay in an eco-friendly treehouse nestled in the forest. It's the perfect escape for nature lovers.", 750, "Costa Rica", "Costa Rica", "Camping", 9.7489, -83.7534},
	{"Historic Cottage in Charleston", "Experience the charm of historic Charleston in this beautifully restored cottage with a private garden.", 1600, "Charleston", "United States", "Rooms", 32.7765, -79.9311},
	{"Modern Apartment in Tokyo", "Explore the vibrant city of Tokyo from this modern and centrally located apartment.", 2000, "Tokyo", "Japan", "Iconic Cities", 35.6762, 139.6503},
	{"Lakefront Cabin in New Hampshire", "Spend your days by the lake in this cozy cabin in the scenic White Mountains of New Hampshire.", 1200, "New Hampshire", "United States", "Mountains", 43.1939, -71.5724},
	{"Luxury Villa in the Maldives", "Indulge in luxury in this overwater villa in the Maldives with stunning views of the Indian Ocean.", 6000, "Maldives", "Maldives", "Boats", 3.2028, 73.2207},
	{"Ski Chalet in Aspen", "Hit the slopes in style with this luxurious ski chalet in the world-famous Aspen ski resort.", 4000, "Aspen", "United States", "Arctic", 39.1911, -106.8175},
	{"Secluded Beach House in Costa Rica", "Escape to a secluded beach house on the Pacific coast of Costa Rica. Surf, relax, and unwind.", 1800, "Costa Rica", "Costa Rica", "Trending", 9.9281, -84.0907},
}

// seedListings replaces every listing and review with the sample data owned by
// ownerUsername and returns how many listings were written.
func seedListings(ctx context.Context, database *mongo.Database, ownerUsername, placeholderURL string) (int, error) {
	owner, err := services.NewUserService(database).FindByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return 0, fmt.Errorf("owner %q not found, sign up first", ownerUsername)
		}
		return 0, err
	}

	if _, err := database.Collection("reviews").DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear reviews: %w", err)
	}
	if _, err := database.Collection("listings").DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear listings: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(sampleListings))
	for _, s := range sampleListings {
		docs = append(docs, models.Listing{
			ID:          primitive.NewObjectID(),
			Title:       s.title,
			Description: s.description,
			Image:       models.Image{}.Normalize(placeholderURL),
			Price:       s.price,
			Location:    s.location,
			Country:     s.country,
			Category:    s.category,
			Geometry:    models.NewPoint(s.lat, s.lng),
			OwnerID:     owner.ID,
			ReviewIDs:   []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	err = db.Try(func() error {
		_, insertErr := database.Collection("listings").InsertMany(ctx, docs)
		return insertErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert sample listings: %w", err)
	}
	return len(docs), nil
}
