package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Invoice renders a PDF receipt for a locally recorded order, with a QR
// code of the order number for the tracking page.
func (h *Handlers) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.Mat.FindByNumber(ps.ByName("ordernumber"))
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "VELORE Order Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order Number: %s", order.OrderNumber))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", order.OrderDate))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Ship To: %s %s, %s, %s %s",
		order.ShippingAddress.FirstName, order.ShippingAddress.LastName,
		order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.Pincode))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, line := range order.Items {
		pdf.Cell(0, 8, fmt.Sprintf("%s - %s  x%d  @ %.2f  =  %.2f",
			line.Product.Brand, line.Product.Name, line.Quantity,
			line.Product.Price, line.Subtotal()))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Subtotal: %.2f", order.Subtotal))
	pdf.Ln(6)
	if order.ShippingCost == 0 {
		pdf.Cell(0, 8, "Shipping: FREE")
	} else {
		pdf.Cell(0, 8, fmt.Sprintf("Shipping: %.2f", order.ShippingCost))
	}
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.Total))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
