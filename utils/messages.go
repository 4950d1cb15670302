package utils

import (
	"fmt"
	"strings"
)

// Messages maps an error/result code to its user-facing (Thai) text.
// Placeholders use {name} and are filled from the error params.
var Messages = map[string]string{
	"error.internal":       "เกิดข้อผิดพลาดภายในระบบ",
	"error.invalidPayload": "ข้อมูลที่ส่งมาไม่ถูกต้อง",
	"error.invalidID":      "รหัสอ้างอิงไม่ถูกต้อง",

	"auth.tokenMissing":       "กรุณาเข้าสู่ระบบ",
	"auth.tokenInvalid":       "โทเคนไม่ถูกต้องหรือหมดอายุ",
	"auth.invalidCredentials": "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง",
	"auth.userInactive":       "บัญชีผู้ใช้นี้ถูกปิดการใช้งาน",
	"auth.forbidden":          "คุณไม่มีสิทธิ์เข้าถึงข้อมูลนี้",

	"user.notFound":       "ไม่พบผู้ใช้",
	"user.usernameExists": "ชื่อผู้ใช้นี้ถูกใช้แล้ว",
	"user.emailExists":    "อีเมลนี้ถูกใช้แล้ว",
	"user.phoneExists":    "เบอร์โทรศัพท์นี้ถูกใช้แล้ว",
	"user.duplicate":      "ข้อมูลผู้ใช้ซ้ำกับที่มีอยู่แล้ว",
	"user.invalidRole":    "บทบาทผู้ใช้ไม่ถูกต้อง",
	"user.invalidPhone":   "รูปแบบเบอร์โทรศัพท์ไม่ถูกต้อง",
	"user.invalidEmail":   "รูปแบบอีเมลไม่ถูกต้อง",
	"user.passwordShort":  "รหัสผ่านต้องมีอย่างน้อย {min} ตัวอักษร",

	"menu.notFound":        "ไม่พบเมนู",
	"menu.inactive":        "เมนู {code} ถูกปิดการใช้งาน",
	"menu.codeExists":      "รหัสเมนูนี้มีอยู่แล้ว",
	"menu.invalidCategory": "หมวดหมู่เมนูไม่ถูกต้อง",
	"menu.codeRequired":    "กรุณาระบุรหัสเมนู",
	"menu.nameRequired":    "กรุณาระบุชื่อเมนู",

	"package.notFound":          "ไม่พบแพ็กเกจ",
	"package.inactive":          "แพ็กเกจนี้ปิดการใช้งานแล้ว",
	"package.nameExists":        "ชื่อแพ็กเกจนี้มีอยู่แล้ว",
	"package.priceExists":       "ราคาต่อโต๊ะนี้ถูกใช้กับแพ็กเกจอื่นแล้ว",
	"package.duplicate":         "ชื่อหรือราคาแพ็กเกจซ้ำกับที่มีอยู่แล้ว",
	"package.nameRequired":      "กรุณาระบุชื่อแพ็กเกจ",
	"package.priceInvalid":      "ราคาต่อโต๊ะต้องมากกว่า 0",
	"package.quotaMismatch":     "ผลรวมโควตาแต่ละหมวด ({sum}) ต้องเท่ากับจำนวนเมนูที่เลือกได้ ({included})",
	"package.invalidCategory":   "หมวดหมู่ {category} ไม่ถูกต้อง",
	"package.menuNotFound":      "ไม่พบเมนูรหัส {menu_id} ในแพ็กเกจ",
	"package.extraPriceInvalid": "ราคาเมนูเพิ่มต้องมากกว่า 0",

	"booking.notFound":          "ไม่พบการจอง",
	"booking.tableCountInvalid": "จำนวนโต๊ะต้องมีอย่างน้อย 1 โต๊ะ",
	"booking.eventDateRequired": "กรุณาระบุวันและเวลาจัดงาน",
	"booking.eventDatePast":     "ไม่สามารถจองย้อนหลังได้",
	"booking.locationRequired":  "กรุณาระบุสถานที่จัดงาน",
	"booking.selectionExceeded": "เลือกเมนูได้สูงสุด {max} รายการ (แพ็กเกจรวม {included} รายการ) แต่เลือกมา {selected} รายการ",
	"booking.menuNotFound":      "ไม่พบเมนูรหัส {menu_id}",
	"booking.quantityInvalid":   "จำนวนเมนูต้องมากกว่า 0",
	"booking.codeExhausted":     "ไม่สามารถสร้างรหัสการจองได้ กรุณาลองใหม่อีกครั้ง",
	"booking.invalidStatus":     "สถานะการชำระเงินไม่ถูกต้อง",
	"booking.invalidTransition": "ไม่สามารถเปลี่ยนสถานะจาก {from} เป็น {to} ได้",
	"booking.paymentInvalid":    "ข้อมูลการชำระเงินไม่ถูกต้อง",
	"booking.depositInvalid":    "ยอดมัดจำต้องไม่ติดลบและไม่เกินราคารวม",
	"booking.cancelNotAllowed":  "ยกเลิกได้เฉพาะการจองที่ยังไม่ชำระมัดจำเท่านั้น",
	"booking.notOwner":          "คุณไม่มีสิทธิ์จัดการการจองนี้",
	"booking.cancelled":         "การจองนี้ถูกยกเลิกแล้ว",
	"booking.dateRangeInvalid":  "ช่วงวันที่ไม่ถูกต้อง",

	"review.notFound":         "ไม่พบรีวิว",
	"review.exists":           "การจองนี้มีรีวิวแล้ว",
	"review.ratingInvalid":    "คะแนนต้องอยู่ระหว่าง 1 ถึง 5",
	"review.notOwner":         "คุณไม่มีสิทธิ์จัดการรีวิวนี้",
	"review.bookingCancelled": "ไม่สามารถรีวิวการจองที่ถูกยกเลิกได้",

	"upload.required":    "กรุณาแนบไฟล์",
	"upload.tooLarge":    "ไฟล์มีขนาดเกิน {limit}MB",
	"upload.invalidType": "ชนิดไฟล์ไม่รองรับ",
	"upload.failed":      "อัปโหลดไฟล์ไม่สำเร็จ",

	"success.created":   "สร้างข้อมูลสำเร็จ",
	"success.updated":   "อัปเดตข้อมูลสำเร็จ",
	"success.deleted":   "ลบข้อมูลสำเร็จ",
	"success.fetched":   "ดึงข้อมูลสำเร็จ",
	"success.login":     "เข้าสู่ระบบสำเร็จ",
	"success.cancelled": "ยกเลิกการจองสำเร็จ",
}

// Message renders the catalog entry for code; unknown codes fall back to the internal error text.
func Message(code string, params map[string]any) string {
	tpl, ok := Messages[code]
	if !ok {
		tpl = Messages["error.internal"]
	}
	if len(params) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
