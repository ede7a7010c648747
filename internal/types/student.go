package types

// Student is a student document.
//
// Firestore Structure:
//   - students/{auto_id}
//
// name_normalized is a lowercase copy of the name used for prefix search.
type Student struct {
	ID             string `json:"id" firestore:"-"`
	Name           string `json:"name" firestore:"name"`
	NameNormalized string `json:"-" firestore:"name_normalized"`
	NPM            string `json:"npm" firestore:"npm"`         // Nomor Pokok Mahasiswa
	Department     string `json:"jurusan" firestore:"jurusan"` // Jurusan
}
