package papan

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

// maksBaris membatasi daftar menunggu yang ditampilkan.
const maksBaris = 10

// Render menulis papan antrian dalam bentuk tabel teks.
func Render(w io.Writer, p models.PapanAntrian) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PAPAN ANTRIAN  %s\n", p.DiperbaruiPada.Format("15:04:05"))
	fmt.Fprintln(tw, "LOKET\tNOMOR")
	if len(p.Loket) == 0 {
		fmt.Fprintln(tw, "-\t-")
	}
	for _, l := range p.Loket {
		fmt.Fprintf(tw, "%s\t%s\n", l.CounterName, l.Ticket.QueueCode)
	}

	fmt.Fprintf(tw, "\nMENUNGGU (%d)\n", p.JumlahMenunggu)
	for i, a := range p.Menunggu {
		if i == maksBaris {
			fmt.Fprintf(tw, "... %d lainnya\n", len(p.Menunggu)-maksBaris)
			break
		}
		fmt.Fprintf(tw, "%s\t%s\n", a.QueueCode, a.NamaPoli)
	}

	fmt.Fprintf(tw, "\nTERLEWAT (%d)\n", p.JumlahTerlewat)
	for _, a := range p.Terlewat {
		fmt.Fprintf(tw, "%s\t%s\n", a.QueueCode, a.NamaPoli)
	}
	return tw.Flush()
}
