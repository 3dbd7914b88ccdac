package fakeapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simplebooks/books-contract-tests/servicedef"
)

var (
	errEmailTaken    = errors.New("email already registered")
	errOrderNotFound = errors.New("order not found")
)

type catalogBook struct {
	id     int
	name   string
	author string
	isbn   string
	kind   string
	price  servicedef.Price
	stock  int
}

func (b catalogBook) available() bool { return b.stock > 0 }

// defaultCatalog is the book list the public Simple Books API serves.
func defaultCatalog() []catalogBook {
	return []catalogBook{
		{1, "The Russian", "James Patterson and James O. Born", "1780899475", servicedef.BookTypeFiction, servicedef.NewPrice("12.98"), 12},
		{2, "Just as I Am", "Cicely Tyson", "0062931083", servicedef.BookTypeNonFiction, servicedef.NewPrice("20.33"), 0},
		{3, "The Vanishing Half", "Brit Bennett", "0525536299", servicedef.BookTypeFiction, servicedef.NewPrice("16.20"), 987},
		{4, "The Midnight Library", "Matt Haig", "0525559477", servicedef.BookTypeFiction, servicedef.NewPrice("15.60"), 87},
		{5, "Untamed", "Glennon Doyle", "1984801252", servicedef.BookTypeNonFiction, servicedef.NewPrice("22.17"), 42},
		{6, "Viscount Who Loved Me", "Julia Quinn", "0062353624", servicedef.BookTypeFiction, servicedef.NewPrice("15.60"), 996},
	}
}

type apiClient struct {
	id    string
	name  string
	email string
}

// Store holds the state of one fake API instance.
type Store struct {
	books   []catalogBook
	clients map[string]apiClient // by access token
	emails  map[string]struct{}
	orders  map[string]servicedef.DetailedOrder
	now     func() time.Time
	mu      sync.Mutex
}

func NewStore() *Store {
	return &Store{
		books:   defaultCatalog(),
		clients: make(map[string]apiClient),
		emails:  make(map[string]struct{}),
		orders:  make(map[string]servicedef.DetailedOrder),
		now:     time.Now,
	}
}

// Books returns the catalog filtered by kind ("" for all) and truncated to limit (0 for all).
func (s *Store) Books(kind string, limit int) []servicedef.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]servicedef.Book, 0, len(s.books))
	for _, b := range s.books {
		if kind != "" && b.kind != kind {
			continue
		}
		if limit > 0 && len(ret) == limit {
			break
		}
		ret = append(ret, servicedef.Book{ID: b.id, Name: b.name, Type: b.kind, Available: b.available()})
	}
	return ret
}

// CatalogSize is the number of books in the catalog.
func (s *Store) CatalogSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

func (s *Store) book(id int) (catalogBook, bool) {
	for _, b := range s.books {
		if b.id == id {
			return b, true
		}
	}
	return catalogBook{}, false
}

// Book returns the detailed view of one book.
func (s *Store) Book(id int) (servicedef.SingleBook, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.book(id)
	if !ok {
		return servicedef.SingleBook{}, false
	}
	return servicedef.SingleBook{
		ID:           b.id,
		Name:         b.name,
		Author:       b.author,
		ISBN:         b.isbn,
		Type:         b.kind,
		Price:        b.price,
		CurrentStock: b.stock,
		Available:    b.available(),
	}, true
}

// Register creates an API client and returns its access token. Emails are unique,
// case-insensitively.
func (s *Store) Register(name, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, taken := s.emails[key]; taken {
		return "", errEmailTaken
	}
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	s.clients[token] = apiClient{id: strings.ReplaceAll(uuid.NewString(), "-", ""), name: name, email: email}
	s.emails[key] = struct{}{}
	return token, nil
}

// ClientID returns the id of the client owning token.
func (s *Store) ClientID(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[token]
	return c.id, ok
}

// CreateOrder records an order of one copy of a book. The caller has checked that the book
// exists and is in stock.
func (s *Store) CreateOrder(clientID string, bookID int, customerName string) servicedef.DetailedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := servicedef.DetailedOrder{
		ID:           uuid.NewString(),
		BookID:       bookID,
		CustomerName: customerName,
		CreatedBy:    clientID,
		Quantity:     1,
		Timestamp:    s.now().UnixMilli(),
	}
	s.orders[o.ID] = o
	return o
}

// BookInStock reports whether a book exists and whether it can be ordered.
func (s *Store) BookInStock(id int) (exists, inStock bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.book(id)
	return ok, ok && b.available()
}

// Orders returns the orders created by one client, oldest first.
func (s *Store) Orders(clientID string) []servicedef.DetailedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]servicedef.DetailedOrder, 0)
	for _, o := range s.orders {
		if o.CreatedBy == clientID {
			ret = append(ret, o)
		}
	}
	sortOrders(ret)
	return ret
}

// Order returns one order, which is only visible to the client that created it.
func (s *Store) Order(clientID, id string) (servicedef.DetailedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.CreatedBy != clientID {
		return servicedef.DetailedOrder{}, errOrderNotFound
	}
	return o, nil
}

// RenameOrder changes the customer name of an order; no other field is editable.
func (s *Store) RenameOrder(clientID, id, customerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.CreatedBy != clientID {
		return errOrderNotFound
	}
	o.CustomerName = customerName
	s.orders[id] = o
	return nil
}

func (s *Store) DeleteOrder(clientID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.CreatedBy != clientID {
		return errOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func sortOrders(orders []servicedef.DetailedOrder) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Timestamp != orders[j].Timestamp {
			return orders[i].Timestamp < orders[j].Timestamp
		}
		return orders[i].ID < orders[j].ID
	})
}
