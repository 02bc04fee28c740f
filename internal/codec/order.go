// Package codec maps the JSON wire format of order exports and settlement
// results onto domain types.
package codec

import (
	"io"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/korzinka-settlement/internal/domain/settlement"
)

// DecodeOrders reads every root value of the input. Each root is either a
// JSON array of orders or a single order object, so plain exports,
// concatenated documents and newline-delimited orders are all accepted.
// Anything after the last root that is not whitespace is an error.
// Absent and null numeric fields stay nil on the draft.
func DecodeOrders(d *jx.Decoder) ([]settlement.Entry, error) {
	var entries []settlement.Entry
	for root := 0; ; root++ {
		switch tt := d.Next(); tt {
		case jx.Array:
			if err := d.Arr(func(d *jx.Decoder) error {
				e, err := decodeOrder(d)
				if err != nil {
					return errors.Wrapf(err, "order %d", len(entries))
				}
				entries = append(entries, e)
				return nil
			}); err != nil {
				return nil, err
			}
		case jx.Object:
			e, err := decodeOrder(d)
			if err != nil {
				return nil, errors.Wrapf(err, "order %d", len(entries))
			}
			entries = append(entries, e)
		case jx.Invalid:
			// Invalid is reported both at end of input and on a stray byte;
			// only the former makes Skip return a bare io.EOF.
			err := d.Skip()
			if errors.Is(err, io.EOF) && root > 0 {
				return entries, nil
			}
			if err == nil || errors.Is(err, io.EOF) {
				return nil, errors.New("no orders in input")
			}
			return nil, errors.Wrapf(err, "after order %d", len(entries))
		default:
			return nil, errors.Errorf("unexpected %s after order %d, want array or object", tt, len(entries))
		}
	}
}

func decodeOrder(d *jx.Decoder) (settlement.Entry, error) {
	var e settlement.Entry
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			e.ID, err = decodeID(d)
		case "exchange_rate":
			e.Draft.ExchangeRate, err = decodeDecimal(d)
		case "discount_local":
			e.Draft.DiscountLocal, err = decodeDecimal(d)
		case "gross_total_local":
			e.Draft.GrossTotalLocal, err = decodeDecimal(d)
		case "client_debt_foreign":
			e.Draft.ClientDebtForeign, err = decodeDecimal(d)
		case "payment":
			e.Draft.Payment, err = decodePayment(d)
		case "lines":
			e.Draft.Lines, err = decodeLines(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
	return e, err
}

func decodePayment(d *jx.Decoder) (settlement.PaymentDraft, error) {
	var p settlement.PaymentDraft
	if d.Next() == jx.Null {
		return p, d.Null()
	}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "cash_foreign":
			p.CashForeign, err = decodeDecimal(d)
		case "cash_local":
			p.CashLocal, err = decodeDecimal(d)
		case "transfer_local":
			p.TransferLocal, err = decodeDecimal(d)
		case "terminal_local":
			p.TerminalLocal, err = decodeDecimal(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
	return p, err
}

func decodeLines(d *jx.Decoder) ([]settlement.LineDraft, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	var lines []settlement.LineDraft
	err := d.Arr(func(d *jx.Decoder) error {
		var l settlement.LineDraft
		if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			var err error
			switch string(key) {
			case "group_key":
				l.GroupKey, err = decodeID(d)
			case "quantity":
				l.Quantity, err = decodeCount(d)
			case "delivered_quantity":
				l.DeliveredQuantity, err = decodeCount(d)
			case "unit_cost_foreign":
				l.UnitCostForeign, err = decodeDecimal(d)
			case "unit_sale_foreign":
				l.UnitSaleForeign, err = decodeDecimal(d)
			default:
				return d.Skip()
			}
			if err != nil {
				return errors.Wrap(err, string(key))
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "line %d", len(lines))
		}
		lines = append(lines, l)
		return nil
	})
	return lines, err
}

// decodeID accepts a string, a number or null.
func decodeID(d *jx.Decoder) (string, error) {
	switch tt := d.Next(); tt {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Null:
		return "", d.Null()
	default:
		return "", errors.Errorf("unexpected %s, want string", tt)
	}
}

// decodeDecimal accepts a JSON number, a numeric string or null. Null and the
// empty string are treated as absent.
func decodeDecimal(d *jx.Decoder) (*decimal.Decimal, error) {
	var raw string
	switch tt := d.Next(); tt {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}
		raw = n.String()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		raw = s
	case jx.Null:
		return nil, d.Null()
	default:
		return nil, errors.Errorf("unexpected %s, want number", tt)
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", raw)
	}
	return &v, nil
}

// decodeCount accepts an integer, an integer string or null.
func decodeCount(d *jx.Decoder) (*int64, error) {
	var v int64
	switch tt := d.Next(); tt {
	case jx.Number:
		n, err := d.Int64()
		if err != nil {
			return nil, err
		}
		v = n
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q", s)
		}
		v = n
	case jx.Null:
		return nil, d.Null()
	default:
		return nil, errors.Errorf("unexpected %s, want integer", tt)
	}
	return &v, nil
}
