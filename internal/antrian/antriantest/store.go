// Package antriantest menyediakan Store antrian di memori untuk pengujian
// service, controller, dan klien loket tanpa MariaDB.
package antriantest

import (
	"context"
	"sort"
	"sync"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/services"
)

type kuotaKey struct {
	idDokter int64
	tanggal  string
}

type poli struct {
	nama string
	kode string
}

// Store mengimplementasikan services.Store. Satu mutex melindungi seluruh
// state sehingga setiap operasi atomik seperti transaksi di MariaDB.
type Store struct {
	mu      sync.Mutex
	poli    map[int64]poli
	dokter  map[int64]models.InfoDokter
	pasien  map[int64]string
	kuota   map[kuotaKey]*models.KuotaHarian
	antrian []*models.Antrian
	nextID  int64
}

var _ services.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		poli:   map[int64]poli{},
		dokter: map[int64]models.InfoDokter{},
		pasien: map[int64]string{},
		kuota:  map[kuotaKey]*models.KuotaHarian{},
	}
}

func (s *Store) AddPoli(id int64, nama, kode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poli[id] = poli{nama: nama, kode: kode}
}

func (s *Store) AddDokter(id, idPoli int64, nama, noSIP string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.poli[idPoli]
	s.dokter[id] = models.InfoDokter{
		IDDokter:    id,
		NamaDokter:  nama,
		NoSIP:       noSIP,
		IDPoli:      idPoli,
		NamaPoli:    p.nama,
		KodeAntrian: p.kode,
	}
}

func (s *Store) AddPasien(id int64, nama string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pasien[id] = nama
}

// Get mengembalikan salinan tiket berdasarkan id.
func (s *Store) Get(id int64) (models.Antrian, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.find(id)
	if a == nil {
		return models.Antrian{}, false
	}
	return *a, true
}

func (s *Store) find(id int64) *models.Antrian {
	for _, a := range s.antrian {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// loketSibuk melaporkan apakah loket masih memegang tiket CALLED pada tanggal itu.
func (s *Store) loketSibuk(tanggal, loket string) bool {
	for _, a := range s.antrian {
		if a.Tanggal == tanggal && a.CounterName == loket && a.Status == models.StatusDipanggil {
			return true
		}
	}
	return false
}

func (s *Store) InfoDokter(_ context.Context, idDokter int64) (*models.InfoDokter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.dokter[idDokter]
	if !ok {
		return nil, services.ErrDokterTidakDitemukan
	}
	return &info, nil
}

func (s *Store) PasienAda(_ context.Context, idPasien int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pasien[idPasien]
	return ok, nil
}

func (s *Store) kuotaFor(idDokter int64, tanggal string, defaultMax int) *models.KuotaHarian {
	key := kuotaKey{idDokter: idDokter, tanggal: tanggal}
	k, ok := s.kuota[key]
	if !ok {
		k = &models.KuotaHarian{
			ID:       int64(len(s.kuota) + 1),
			IDDokter: idDokter,
			Tanggal:  tanggal,
			MaxQuota: defaultMax,
			Status:   models.KuotaBuka,
		}
		s.kuota[key] = k
	}
	return k
}

func (s *Store) ReserveTicket(_ context.Context, p services.ReserveParams) (*models.Antrian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.kuotaFor(p.IDDokter, p.Tanggal, p.DefaultMaxQuota)
	if k.Status != models.KuotaBuka {
		return nil, services.ErrKuotaDitutup
	}
	next := k.CurrentCount + 1
	if next > k.MaxQuota {
		return nil, services.ErrKuotaPenuh
	}
	k.CurrentCount = next

	s.nextID++
	a := &models.Antrian{
		ID:          s.nextID,
		IDKuota:     k.ID,
		IDPasien:    p.IDPasien,
		IDDokter:    p.IDDokter,
		IDPoli:      p.IDPoli,
		Tanggal:     p.Tanggal,
		QueueNumber: next,
		QueueCode:   services.FormatKodeAntrian(p.Prefix, next),
		Status:      models.StatusMenunggu,
		NamaPasien:  s.pasien[p.IDPasien],
		NamaPoli:    s.poli[p.IDPoli].nama,
		CreatedAt:   p.Now,
	}
	s.antrian = append(s.antrian, a)
	cp := *a
	return &cp, nil
}

func (s *Store) ClaimNextWaiting(_ context.Context, p services.ClaimParams) (*models.Antrian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loketSibuk(p.Tanggal, p.CounterName) {
		return nil, services.ErrLoketSibuk
	}
	// s.antrian tersusun menurut urutan terbit (created_at, id).
	for _, a := range s.antrian {
		if a.Tanggal != p.Tanggal || a.Status != models.StatusMenunggu {
			continue
		}
		if p.IDPoli > 0 && a.IDPoli != p.IDPoli {
			continue
		}
		now := p.Now
		a.Status = models.StatusDipanggil
		a.CounterName = p.CounterName
		a.CalledAt = &now
		cp := *a
		return &cp, nil
	}
	return nil, services.ErrAntrianKosong
}

func (s *Store) TransitionStatus(_ context.Context, p services.TransitionParams) (*models.Antrian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(p.ID)
	if a == nil {
		return nil, services.ErrAntrianTidakDitemukan
	}
	if a.Status != p.From {
		return nil, services.ErrStatusTidakValid
	}
	now := p.Now
	a.Status = p.To
	switch p.To {
	case models.StatusTerlewat:
		a.SkippedAt = &now
	case models.StatusDipanggil:
		a.CalledAt = &now
	default:
		a.FinishedAt = &now
	}
	cp := *a
	return &cp, nil
}

func (s *Store) RecallSkipped(_ context.Context, p services.RecallParams) (*models.Antrian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loketSibuk(p.Tanggal, p.CounterName) {
		return nil, services.ErrLoketSibuk
	}
	a := s.find(p.ID)
	if a == nil {
		return nil, services.ErrAntrianTidakDitemukan
	}
	if a.Status != models.StatusTerlewat {
		return nil, services.ErrStatusTidakValid
	}
	now := p.Now
	a.Status = models.StatusDipanggil
	a.CounterName = p.CounterName
	a.CalledAt = &now
	cp := *a
	return &cp, nil
}

func (s *Store) ListAntrian(_ context.Context, f services.ListFilter) ([]models.Antrian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []models.Antrian{}
	for _, a := range s.antrian {
		if a.Tanggal != f.Tanggal || a.Status != f.Status {
			continue
		}
		if f.IDPoli > 0 && a.IDPoli != f.IDPoli {
			continue
		}
		if f.CounterName != "" && a.CounterName != f.CounterName {
			continue
		}
		list = append(list, *a)
	}
	switch f.Status {
	case models.StatusTerlewat:
		sort.SliceStable(list, func(i, j int) bool { return list[i].SkippedAt.Before(*list[j].SkippedAt) })
	case models.StatusDipanggil:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CounterName < list[j].CounterName })
	}
	return list, nil
}

func (s *Store) ListKuota(_ context.Context, tanggal string) ([]models.KuotaHarian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []models.KuotaHarian{}
	for key, k := range s.kuota {
		if key.tanggal != tanggal {
			continue
		}
		cp := *k
		cp.NamaDokter = s.dokter[k.IDDokter].NamaDokter
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].NamaDokter < list[j].NamaDokter })
	return list, nil
}

func (s *Store) SetKuota(_ context.Context, p services.KuotaParams) (*models.KuotaHarian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.kuotaFor(p.IDDokter, p.Tanggal, p.DefaultMaxQuota)
	if p.MaxQuota != nil {
		if *p.MaxQuota < k.CurrentCount {
			return nil, services.ErrKuotaTidakValid
		}
		k.MaxQuota = *p.MaxQuota
	}
	if p.Status != "" {
		k.Status = p.Status
	}
	cp := *k
	return &cp, nil
}
