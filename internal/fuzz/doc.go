// Package fuzztests houses Go fuzz harnesses for the Humdrum analysis
// chain (source -> tokenize -> spines -> links -> tracks -> non-null).
// The goal is to catch panics and broken graph invariants on arbitrary
// input.
//
// Назначение: грузить байты в FileSet и прогонять весь анализ.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
