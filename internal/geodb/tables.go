package geodb

import (
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// suaRow is one row of the significant-urban-area attribute table. Column
// headers follow the ABS publication.
type suaRow struct {
	Code       string  `csv:"SUA code"`
	Name       string  `csv:"Significant Urban Area"`
	Population int     `csv:"Population"`
	AreaSqKm   float64 `csv:"Area_sqkm"`
}

// lgaRow is one row of the local-government-area attribute table.
type lgaRow struct {
	Code       string `csv:"LGA code"`
	Name       string `csv:"Local Government Area"`
	Population int    `csv:"population"`
}

func (db *Database) suaTable() ([]suaRow, error) {
	path, err := db.attributePath("sua_population")
	if err != nil {
		return nil, err
	}
	v, err := db.cache.getOrLoad(path, func() (any, error) {
		data, err := readTabular(path)
		if err != nil {
			return nil, err
		}
		var rows []suaRow
		if err := csvutil.Unmarshal(data, &rows); err != nil {
			return nil, eris.Wrapf(err, "geodb: parse %s", path)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]suaRow), nil
}

func (db *Database) lgaTable() ([]lgaRow, error) {
	path, err := db.attributePath("lga_population")
	if err != nil {
		return nil, err
	}
	v, err := db.cache.getOrLoad(path, func() (any, error) {
		data, err := readTabular(path)
		if err != nil {
			return nil, err
		}
		var rows []lgaRow
		if err := csvutil.Unmarshal(data, &rows); err != nil {
			return nil, eris.Wrapf(err, "geodb: parse %s", path)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]lgaRow), nil
}

func (db *Database) salTable() ([]salRow, error) {
	path, err := db.attributePath("sal_population")
	if err != nil {
		return nil, err
	}
	v, err := db.cache.getOrLoad(path, func() (any, error) {
		return parseSALPopulation(path)
	})
	if err != nil {
		return nil, err
	}
	return v.([]salRow), nil
}
