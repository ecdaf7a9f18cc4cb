package shop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/session"
)

// Store keeps the local cart/wishlist mirrors in sync with the backend.
// The server stays authoritative: mutations re-fetch instead of computing
// new state locally.
type Store struct {
	api     *api.Client
	session *session.Store
	notify  Notifier
	log     *slog.Logger

	mu            sync.RWMutex
	cartCount     int
	wishlistCount int
	wishlist      []api.WishlistItem
}

func NewStore(client *api.Client, sess *session.Store, notify Notifier, log *slog.Logger) *Store {
	s := &Store{api: client, session: sess, notify: notify, log: log}
	// Logout must reset local state without touching the network, so an
	// in-flight count refresh cannot race the logout navigation.
	sess.OnLogout(s.ClearLocal)
	return s
}

func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartCount
}

func (s *Store) WishlistCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wishlistCount
}

// WishlistItems returns a copy of the cached wishlist.
func (s *Store) WishlistItems() []api.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.WishlistItem, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

// ClearLocal resets counters and the wishlist cache without any network
// call. Used during logout.
func (s *Store) ClearLocal() {
	s.mu.Lock()
	s.cartCount = 0
	s.wishlistCount = 0
	s.wishlist = nil
	s.mu.Unlock()
}

func (s *Store) setCartCount(n int) {
	s.mu.Lock()
	s.cartCount = n
	s.mu.Unlock()
}

func (s *Store) setWishlist(items []api.WishlistItem) {
	s.mu.Lock()
	s.wishlist = items
	s.wishlistCount = len(items)
	s.mu.Unlock()
}

// LoadCartCount fetches the cart and stores the summed quantity. Without a
// user it resets the count and stays off the network.
func (s *Store) LoadCartCount(ctx context.Context) {
	l := s.log.With("op", "load_cart_count")
	if !s.session.IsLoggedIn() {
		s.setCartCount(0)
		return
	}

	items, err := s.api.Cart(ctx)
	if err != nil {
		l.Error("load_failed", "kind", api.KindOf(err).String(), "error", err)
		s.setCartCount(0)
		return
	}

	count := 0
	for _, it := range items {
		if it.Quantity == 0 {
			count++
			continue
		}
		count += int(it.Quantity)
	}
	s.setCartCount(count)
}

// AddToCart posts one line for the product and refreshes the count. A
// duplicate entry is an informational condition, not a failure.
func (s *Store) AddToCart(ctx context.Context, product api.Product) {
	l := s.log.With("op", "add_to_cart", "product_id", product.ID)
	if !s.session.IsLoggedIn() {
		s.notify.Notify(LevelError, "Please login first!")
		return
	}

	_, err := s.api.AddToCart(ctx, product.ID, 1)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindConflict:
			s.notify.Notify(LevelInfo, "Product already in cart!")
		case api.KindUnauthorized:
			s.notify.Notify(LevelError, "Please login again.")
		default:
			l.Error("add_failed", "kind", api.KindOf(err).String(), "error", err)
			s.notify.Notify(LevelError, "Failed to add to cart. Please try again.")
		}
		return
	}

	s.LoadCartCount(ctx)
	s.notify.Notify(LevelSuccess, "Product added to cart!")
}

// ClearCart deletes every line concurrently and zeroes the count regardless
// of individual outcomes. Best effort; the next load reconciles leftovers.
func (s *Store) ClearCart(ctx context.Context) {
	l := s.log.With("op", "clear_cart")
	if !s.session.IsLoggedIn() {
		s.setCartCount(0)
		return
	}

	items, err := s.api.Cart(ctx)
	if err != nil {
		l.Error("list_failed", "kind", api.KindOf(err).String(), "error", err)
		s.setCartCount(0)
		s.notify.Notify(LevelError, "Failed to clear cart")
		return
	}

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if err := s.api.RemoveCartItem(ctx, id); err != nil {
				l.Warn("delete_failed", "item_id", id, "error", err)
			}
		}(it.ID)
	}
	wg.Wait()

	s.setCartCount(0)
	s.notify.Notify(LevelSuccess, "Cart cleared successfully!")
}

// LoadWishlist replaces the local cache with the server's list.
func (s *Store) LoadWishlist(ctx context.Context) {
	l := s.log.With("op", "load_wishlist")
	if !s.session.IsLoggedIn() {
		s.setWishlist(nil)
		return
	}

	items, err := s.api.Wishlist(ctx)
	if err != nil {
		l.Error("load_failed", "kind", api.KindOf(err).String(), "error", err)
		s.setWishlist(nil)
		return
	}
	s.setWishlist(items)
}

func (s *Store) AddToWishlist(ctx context.Context, product api.Product) {
	l := s.log.With("op", "add_to_wishlist", "product_id", product.ID)
	if !s.session.IsLoggedIn() {
		s.notify.Notify(LevelWarning, "Please login to use wishlist!")
		return
	}

	_, err := s.api.AddToWishlist(ctx, product.ID)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindConflict:
			s.notify.Notify(LevelInfo, "Product already in wishlist!")
		case api.KindUnauthorized:
			s.notify.Notify(LevelError, "Please login again.")
		default:
			l.Error("add_failed", "kind", api.KindOf(err).String(), "error", err)
			s.notify.Notify(LevelError, "Failed to add to wishlist")
		}
		return
	}

	s.LoadWishlist(ctx)
	s.notify.Notify(LevelSuccess, "Added to wishlist!")
}

// RemoveFromWishlist deletes one entry by its server id. Logged out it only
// prunes the local cache.
func (s *Store) RemoveFromWishlist(ctx context.Context, id uint) {
	l := s.log.With("op", "remove_from_wishlist", "item_id", id)
	if !s.session.IsLoggedIn() {
		s.dropLocal(id)
		return
	}

	if err := s.api.RemoveWishlistItem(ctx, id); err != nil {
		l.Error("remove_failed", "kind", api.KindOf(err).String(), "error", err)
		s.dropLocal(id)
		s.notify.Notify(LevelError, "Failed to remove from wishlist")
		return
	}

	s.LoadWishlist(ctx)
	s.notify.Notify(LevelInfo, "Removed from wishlist")
}

func (s *Store) dropLocal(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.wishlist[:0]
	for _, it := range s.wishlist {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.wishlist = kept
	s.wishlistCount = len(kept)
}

// ClearWishlist mirrors ClearCart: concurrent best-effort deletes, then a
// local reset.
func (s *Store) ClearWishlist(ctx context.Context) {
	l := s.log.With("op", "clear_wishlist")
	if !s.session.IsLoggedIn() {
		s.setWishlist(nil)
		return
	}

	items, err := s.api.Wishlist(ctx)
	if err != nil {
		l.Error("list_failed", "kind", api.KindOf(err).String(), "error", err)
		s.setWishlist(nil)
		return
	}

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if err := s.api.RemoveWishlistItem(ctx, id); err != nil {
				l.Warn("delete_failed", "item_id", id, "error", err)
			}
		}(it.ID)
	}
	wg.Wait()

	s.setWishlist(nil)
}
