package loket

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pengumuman adalah teks panggilan yang dibacakan di ruang tunggu.
type Pengumuman struct {
	Huruf string // huruf kode dipisah ". ", misal "B. C"
	Nomor int
	Teks  string
}

var ErrKodeTanpaNomor = errors.New("kode antrian tidak mengandung angka")

// FormatPengumuman memecah kode antrian menjadi huruf dan angka lalu menyusun
// kalimat panggilan. Huruf diambil dari karakter sebelum angka pertama, angka
// dari deretan digit pertama: "BC103" -> "B. C", 103.
func FormatPengumuman(kode, namaLoket string) (Pengumuman, error) {
	var huruf []string
	var digit strings.Builder
scan:
	for _, r := range kode {
		switch {
		case r >= '0' && r <= '9':
			digit.WriteRune(r)
		case digit.Len() > 0:
			// deretan digit pertama sudah selesai
			break scan
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			huruf = append(huruf, strings.ToUpper(string(r)))
		}
	}
	if digit.Len() == 0 {
		return Pengumuman{}, fmt.Errorf("%w: %q", ErrKodeTanpaNomor, kode)
	}
	nomor, err := strconv.Atoi(digit.String())
	if err != nil {
		return Pengumuman{}, fmt.Errorf("nomor antrian %q tidak valid: %w", kode, err)
	}

	p := Pengumuman{Huruf: strings.Join(huruf, ". "), Nomor: nomor}
	bagian := []string{"Nomor antrian"}
	if p.Huruf != "" {
		bagian = append(bagian, p.Huruf)
	}
	bagian = append(bagian, Terbilang(nomor)+",", "silakan menuju", namaLoket)
	p.Teks = strings.TrimSpace(strings.Join(bagian, " "))
	return p, nil
}

var satuan = []string{"", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas"}

// Terbilang mengubah bilangan bulat menjadi kata bilangan bahasa Indonesia.
// Perhitungan memakai uint64 sehingga math.MinInt dan platform 32-bit aman.
func Terbilang(n int) string {
	switch {
	case n == 0:
		return "nol"
	case n < 0:
		// -(n+1)+1 tidak meluap untuk math.MinInt
		return "minus " + terbilang(uint64(-(n+1))+1)
	}
	return terbilang(uint64(n))
}

const (
	ribu    uint64 = 1_000
	juta    uint64 = 1_000_000
	miliar  uint64 = 1_000_000_000
	triliun uint64 = 1_000_000_000_000
)

func terbilang(n uint64) string {
	switch {
	case n < 12:
		return satuan[n]
	case n < 20:
		return satuan[n-10] + " belas"
	case n < 100:
		return gabung(satuan[n/10]+" puluh", terbilang(n%10))
	case n < 200:
		return gabung("seratus", terbilang(n-100))
	case n < ribu:
		return gabung(satuan[n/100]+" ratus", terbilang(n%100))
	case n < 2*ribu:
		return gabung("seribu", terbilang(n-ribu))
	case n < juta:
		return gabung(terbilang(n/ribu)+" ribu", terbilang(n%ribu))
	case n < miliar:
		return gabung(terbilang(n/juta)+" juta", terbilang(n%juta))
	case n < triliun:
		return gabung(terbilang(n/miliar)+" miliar", terbilang(n%miliar))
	}
	return gabung(terbilang(n/triliun)+" triliun", terbilang(n%triliun))
}

func gabung(depan, belakang string) string {
	if belakang == "" {
		return depan
	}
	return depan + " " + belakang
}
