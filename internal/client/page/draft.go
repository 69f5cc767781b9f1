package page

// Draft es la copia de un registro mientras el diálogo de edición está abierto.
// Los cambios no tocan el listado hasta SubmitEdit.
type Draft[T any] struct {
	id    string
	value T
}

func (d *Draft[T]) ID() string { return d.id }

func (d *Draft[T]) Value() T { return d.value }

// Set reemplaza el borrador completo.
func (d *Draft[T]) Set(v T) { d.value = v }

// Update aplica fn sobre el borrador.
func (d *Draft[T]) Update(fn func(*T)) { fn(&d.value) }
