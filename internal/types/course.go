package types

// Course represents a course (mata kuliah) stored in Firestore.
//
// Firestore Structure:
//   - courses/{auto_id}
//
// The code is unique across the collection. Writes check it inside a
// transaction, Firestore itself does not enforce it.
type Course struct {
	ID         string `json:"id" firestore:"-"`
	Code       string `json:"kode" firestore:"kode"`       // e.g., "IF2110"
	Name       string `json:"nama" firestore:"nama"`       // Course title
	Credits    int    `json:"sks" firestore:"sks"`         // SKS, 1..6
	Department string `json:"jurusan" firestore:"jurusan"` // Owning department
}
