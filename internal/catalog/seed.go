// internal/catalog/seed.go
package catalog

// SeedPublishers returns the publishers a fresh store starts with.
func SeedPublishers() []Publisher {
	return []Publisher{
		{ID: 1, Name: "Penguin Random House", Location: "New York, USA"},
		{ID: 2, Name: "HarperCollins Publishers", Location: "New York, USA"},
		{ID: 3, Name: "Macmillan Publishers", Location: "London, UK"},
		{ID: 4, Name: "Simon & Schuster", Location: "New York, USA"},
		{ID: 5, Name: "Hachette Book Group", Location: "New York, USA"},
		{ID: 6, Name: "Oxford University Press", Location: "Oxford, UK"},
		{ID: 7, Name: "Scholastic Corporation", Location: "New York, USA"},
		{ID: 8, Name: "Pearson Education", Location: "London, UK"},
		{ID: 9, Name: "Wiley", Location: "Hoboken, USA"},
		{ID: 10, Name: "Springer Nature", Location: "Berlin, Germany"},
	}
}

// SeedBooks returns the books a fresh store starts with.
func SeedBooks() []Book {
	return []Book{
		{ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: 1925, Genre: "Fiction", IsAvailable: true, AudioBookAvailable: true, PublisherID: 3},
		{ID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", Year: 1960, Genre: "Fiction", IsAvailable: false, AudioBookAvailable: true, PublisherID: 7},
		{ID: 3, Title: "1984", Author: "George Orwell", Year: 1949, Genre: "Dystopian Fiction", IsAvailable: true, AudioBookAvailable: true, PublisherID: 5},
		{ID: 4, Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813, Genre: "Romance", IsAvailable: true, AudioBookAvailable: false, PublisherID: 2},
		{ID: 5, Title: "The Catcher in the Rye", Author: "J.D. Salinger", Year: 1951, Genre: "Fiction", IsAvailable: false, AudioBookAvailable: true, PublisherID: 8},
		{ID: 6, Title: "Brave New World", Author: "Aldous Huxley", Year: 1932, Genre: "Science Fiction", IsAvailable: true, AudioBookAvailable: true, PublisherID: 4},
		{ID: 7, Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Year: 1954, Genre: "Fantasy", IsAvailable: false, AudioBookAvailable: true, PublisherID: 1},
		{ID: 8, Title: "Animal Farm", Author: "George Orwell", Year: 1945, Genre: "Political Satire", IsAvailable: true, AudioBookAvailable: false, PublisherID: 5},
		{ID: 9, Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937, Genre: "Fantasy", IsAvailable: false, AudioBookAvailable: true, PublisherID: 1},
		{ID: 10, Title: "Moby-Dick", Author: "Herman Melville", Year: 1851, Genre: "Adventure", IsAvailable: true, AudioBookAvailable: false, PublisherID: 9},
		{ID: 11, Title: "Wuthering Heights", Author: "Emily Brontë", Year: 1847, Genre: "Gothic Fiction", IsAvailable: true, AudioBookAvailable: false, PublisherID: 6},
		{ID: 12, Title: "The Odyssey", Author: "Homer", Year: -800, Genre: "Epic Poetry", IsAvailable: false, AudioBookAvailable: true, PublisherID: 10},
		{ID: 13, Title: "Jane Eyre", Author: "Charlotte Brontë", Year: 1847, Genre: "Gothic Fiction", IsAvailable: true, AudioBookAvailable: true, PublisherID: 6},
		{ID: 14, Title: "Frankenstein", Author: "Mary Shelley", Year: 1818, Genre: "Gothic Fiction", IsAvailable: false, AudioBookAvailable: true, PublisherID: 3},
		{ID: 15, Title: "The Picture of Dorian Gray", Author: "Oscar Wilde", Year: 1890, Genre: "Gothic Fiction", IsAvailable: true, AudioBookAvailable: false, PublisherID: 7},
		{ID: 16, Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: 1866, Genre: "Psychological Fiction", IsAvailable: false, AudioBookAvailable: true, PublisherID: 4},
		{ID: 17, Title: "The Brothers Karamazov", Author: "Fyodor Dostoevsky", Year: 1880, Genre: "Philosophical Fiction", IsAvailable: true, AudioBookAvailable: true, PublisherID: 4},
		{ID: 18, Title: "War and Peace", Author: "Leo Tolstoy", Year: 1869, Genre: "Historical Fiction", IsAvailable: false, AudioBookAvailable: true, PublisherID: 2},
		{ID: 19, Title: "Anna Karenina", Author: "Leo Tolstoy", Year: 1878, Genre: "Realist Fiction", IsAvailable: true, AudioBookAvailable: false, PublisherID: 2},
		{ID: 20, Title: "Don Quixote", Author: "Miguel de Cervantes", Year: 1605, Genre: "Adventure", IsAvailable: false, AudioBookAvailable: true, PublisherID: 8},
		{ID: 21, Title: "The Divine Comedy", Author: "Dante Alighieri", Year: 1320, Genre: "Epic Poetry", IsAvailable: true, AudioBookAvailable: false, PublisherID: 10},
		{ID: 22, Title: "Les Misérables", Author: "Victor Hugo", Year: 1862, Genre: "Historical Fiction", IsAvailable: false, AudioBookAvailable: true, PublisherID: 9},
		{ID: 23, Title: "The Grapes of Wrath", Author: "John Steinbeck", Year: 1939, Genre: "Social Realism", IsAvailable: true, AudioBookAvailable: true, PublisherID: 1},
		{ID: 24, Title: "East of Eden", Author: "John Steinbeck", Year: 1952, Genre: "Fiction", IsAvailable: false, AudioBookAvailable: false, PublisherID: 1},
	}
}
