package storage

import "context"

// FreeCells lists unoccupied cells ordered by cell number.
func (s *PVZStorage) FreeCells(ctx context.Context) ([]StorageCell, error) {
	repoCells, err := s.repos.Cells.ListFree(ctx)
	if err != nil {
		return nil, err
	}
	cells := make([]StorageCell, len(repoCells))
	for i, cell := range repoCells {
		cells[i] = StorageCell{
			ID:         cell.ID,
			CellNumber: cell.CellNumber,
			IsOccupied: cell.IsOccupied,
		}
	}
	return cells, nil
}
