package attention

// Window ограниченная FIFO-очередь последних значений угла.
// При заполнении новая запись вытесняет самую старую.
type Window struct {
	values []float64
	head   int
	size   int
}

// NewWindow создаёт окно заданной ёмкости (минимум 1)
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{values: make([]float64, capacity)}
}

// Push добавляет значение и возвращает среднее по текущему содержимому
func (w *Window) Push(v float64) float64 {
	if w.size < len(w.values) {
		w.values[(w.head+w.size)%len(w.values)] = v
		w.size++
	} else {
		w.values[w.head] = v
		w.head = (w.head + 1) % len(w.values)
	}
	return w.Mean()
}

// Mean среднее арифметическое; 0 для пустого окна
func (w *Window) Mean() float64 {
	if w.size == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.size; i++ {
		sum += w.values[(w.head+i)%len(w.values)]
	}
	return sum / float64(w.size)
}

// Values возвращает содержимое от старого к новому
func (w *Window) Values() []float64 {
	out := make([]float64, w.size)
	for i := range out {
		out[i] = w.values[(w.head+i)%len(w.values)]
	}
	return out
}

func (w *Window) Len() int      { return w.size }
func (w *Window) Cap() int      { return len(w.values) }
func (w *Window) Full() bool    { return w.size == len(w.values) }
func (w *Window) IsEmpty() bool { return w.size == 0 }

// Reset очищает окно
func (w *Window) Reset() {
	w.head = 0
	w.size = 0
}
